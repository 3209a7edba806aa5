// Package navigation maps storefront addresses to the page being shown and back.
// The address is the single source of truth: state is re-derived from it on load and
// on every history move.
package navigation

type Page string

const (
	PageHome            Page = "home"
	PageCatalog         Page = "catalog"
	PageProduct         Page = "product"
	PageCart            Page = "cart"
	PageWishlist        Page = "wishlist"
	PageLookbook        Page = "lookbook"
	PageAbout           Page = "about"
	PageContact         Page = "contact"
	PageCheckout        Page = "checkout"
	PageShipping        Page = "shipping"
	PageReturns         Page = "returns"
	PageAdmin           Page = "admin"
	PageAdminProducts   Page = "admin-products"
	PageAdminCategories Page = "admin-categories"
	PageAdminBanners    Page = "admin-banners"
	PageAdminContent    Page = "admin-content"
	PageAdminSettings   Page = "admin-settings"
	PageDiagnostics     Page = "diagnostics"
)

// pagePaths holds the canonical address of every page except product, whose address
// carries the product id.
var pagePaths = map[Page]string{
	PageHome:            "/",
	PageCatalog:         "/catalog",
	PageCart:            "/cart",
	PageWishlist:        "/wishlist",
	PageLookbook:        "/lookbook",
	PageAbout:           "/about",
	PageContact:         "/contact",
	PageCheckout:        "/checkout",
	PageShipping:        "/shipping",
	PageReturns:         "/returns",
	PageAdmin:           "/admin",
	PageAdminProducts:   "/admin/products",
	PageAdminCategories: "/admin/categories",
	PageAdminBanners:    "/admin/banners",
	PageAdminContent:    "/admin/content",
	PageAdminSettings:   "/admin/settings",
	PageDiagnostics:     "/diagnostics",
}

// Pages lists every known page, product included.
func Pages() []Page {
	return []Page{
		PageHome, PageCatalog, PageProduct, PageCart, PageWishlist, PageLookbook,
		PageAbout, PageContact, PageCheckout, PageShipping, PageReturns,
		PageAdmin, PageAdminProducts, PageAdminCategories, PageAdminBanners,
		PageAdminContent, PageAdminSettings, PageDiagnostics,
	}
}

func (p Page) Known() bool {
	if p == PageProduct {
		return true
	}
	_, ok := pagePaths[p]
	return ok
}

// Admin reports whether p belongs to the back-office console.
func (p Page) Admin() bool {
	switch p {
	case PageAdmin, PageAdminProducts, PageAdminCategories, PageAdminBanners, PageAdminContent, PageAdminSettings:
		return true
	}
	return false
}

// CatalogFilter narrows the catalog page. Empty strings and false are absent.
type CatalogFilter struct {
	Category      string `json:"category,omitempty"`
	ProductType   string `json:"productType,omitempty"`
	UsageCategory string `json:"usageCategory,omitempty"`
	IsNew         bool   `json:"isNew,omitempty"`
	IsBestseller  bool   `json:"isBestseller,omitempty"`
	IsMostLoved   bool   `json:"isMostLoved,omitempty"`
}

func (f CatalogFilter) IsZero() bool {
	return f == CatalogFilter{}
}

type State struct {
	Page      Page           `json:"page"`
	ProductID string         `json:"productId,omitempty"`
	Filter    *CatalogFilter `json:"filter,omitempty"`
}

// Home is the state every unrecognized address resolves to.
func Home() State {
	return State{Page: PageHome}
}

// Normalize drops fields that do not apply to the page, so that two states which
// render the same thing compare equal.
func (s State) Normalize() State {
	out := State{Page: s.Page}
	switch s.Page {
	case PageProduct:
		out.ProductID = s.ProductID
	case PageCatalog:
		if s.Filter != nil && !s.Filter.IsZero() {
			filter := *s.Filter
			out.Filter = &filter
		}
	}
	return out
}
