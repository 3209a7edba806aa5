package navigation

import (
	"testing"

	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripEveryPage(t *testing.T) {
	for _, page := range Pages() {
		state := State{Page: page}
		if page == PageProduct {
			state.ProductID = "p1"
		}
		t.Run(string(page), func(t *testing.T) {
			address, err := EncodeAddress(state)
			require.NoError(t, err)
			assert.Equal(t, state.Normalize(), ParseAddress(address))
		})
	}
}

func TestRoundTripProductIDs(t *testing.T) {
	for _, id := range []string{"p1", "42", "ihram set", "ihram/set", "50%", "kain-ihram_ü"} {
		address, err := EncodeAddress(State{Page: PageProduct, ProductID: id})
		require.NoError(t, err)
		assert.Equal(t, State{Page: PageProduct, ProductID: id}, ParseAddress(address), "address %q", address)
	}
}

func TestRoundTripCatalogFilters(t *testing.T) {
	filters := []CatalogFilter{
		{},
		{Category: "clothing"},
		{UsageCategory: "hajj", IsNew: true},
		{Category: "prayer & dhikr", ProductType: "tasbih beads", UsageCategory: "umrah", IsNew: true, IsBestseller: true, IsMostLoved: true},
		{IsMostLoved: true},
	}
	for _, f := range filters {
		f := f
		state := State{Page: PageCatalog, Filter: &f}
		address, err := EncodeAddress(state)
		require.NoError(t, err)
		assert.Equal(t, state.Normalize(), ParseAddress(address), "address %q", address)
	}
}

func TestParseCatalogScenario(t *testing.T) {
	state := ParseAddress("/catalog?usageCategory=hajj&isNew=true")

	assert.Equal(t, PageCatalog, state.Page)
	require.NotNil(t, state.Filter)
	assert.Equal(t, CatalogFilter{UsageCategory: "hajj", IsNew: true}, *state.Filter)
	assert.Empty(t, state.Filter.Category)
}

func TestParseBooleanFlagsOnlyAcceptTrue(t *testing.T) {
	state := ParseAddress("/catalog?isNew=1&isBestseller=false&isMostLoved=TRUE")
	assert.Nil(t, state.Filter)

	explicitFalse := ParseAddress("/catalog?category=bags&isNew=false")
	omitted := ParseAddress("/catalog?category=bags")
	assert.Equal(t, omitted, explicitFalse)
}

func TestParseIgnoresQueryOutsideCatalog(t *testing.T) {
	assert.Equal(t, State{Page: PageCart}, ParseAddress("/cart?category=bags"))
	assert.Equal(t, State{Page: PageProduct, ProductID: "p1"}, ParseAddress("/product/p1?isNew=true"))
}

func TestParseFallsBackToHome(t *testing.T) {
	for _, address := range []string{"", "/", "/home", "/nope", "/product/", "/product", "/admin/unknown", "%zz", "catalog"} {
		state, recognized := Resolve(address)
		assert.Equal(t, Home(), state, "address %q", address)
		if address == "/" || address == "/home" {
			assert.True(t, recognized, "address %q", address)
		}
	}

	_, recognized := Resolve("/nope")
	assert.False(t, recognized)
}

func TestParseToleratesTrailingSlashAndFullURLs(t *testing.T) {
	assert.Equal(t, State{Page: PageWishlist}, ParseAddress("/wishlist/"))
	assert.Equal(t, State{Page: PageAdminBanners}, ParseAddress("http://127.0.0.1:8787/admin/banners"))
	assert.Equal(t, State{Page: PageProduct, ProductID: "p9"}, ParseAddress("/product/p9/"))
}

func TestEncodeCatalogUsesFixedKeyOrder(t *testing.T) {
	address, err := EncodeAddress(State{Page: PageCatalog, Filter: &CatalogFilter{
		IsMostLoved:   true,
		UsageCategory: "hajj",
		Category:      "clothing",
		IsNew:         true,
		ProductType:   "",
	}})
	require.NoError(t, err)
	assert.Equal(t, "/catalog?category=clothing&usageCategory=hajj&isNew=true&isMostLoved=true", address)

	address, err = EncodeAddress(State{Page: PageCatalog, Filter: &CatalogFilter{}})
	require.NoError(t, err)
	assert.Equal(t, "/catalog", address)
}

func TestEncodeCanonicalPaths(t *testing.T) {
	cases := map[Page]string{
		PageHome:          "/",
		PageCart:          "/cart",
		PageAdmin:         "/admin",
		PageAdminSettings: "/admin/settings",
		PageDiagnostics:   "/diagnostics",
	}
	for page, want := range cases {
		got, err := EncodeAddress(State{Page: page, ProductID: "ignored"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEncodeRejectsInvalidStates(t *testing.T) {
	_, err := EncodeAddress(State{Page: PageProduct, ProductID: "  "})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = EncodeAddress(State{Page: "blog"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestPageHelpers(t *testing.T) {
	assert.True(t, PageProduct.Known())
	assert.False(t, Page("blog").Known())
	assert.True(t, PageAdminContent.Admin())
	assert.False(t, PageCheckout.Admin())
	assert.Len(t, Pages(), len(pagePaths)+1)
}
