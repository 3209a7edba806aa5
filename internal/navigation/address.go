package navigation

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
)

// Catalog query keys, in the order they are written.
const (
	queryCategory      = "category"
	queryProductType   = "productType"
	queryUsageCategory = "usageCategory"
	queryIsNew         = "isNew"
	queryIsBestseller  = "isBestseller"
	queryIsMostLoved   = "isMostLoved"

	queryTrue = "true"
)

type routeMatch struct {
	page      Page
	productID string
	matched   bool
}

type matchKey struct{}

// routes is the page table. It is only ever asked to match paths; handlers record the
// match on the request context instead of writing a response.
var routes = newRouteTable()

func newRouteTable() chi.Router {
	r := chi.NewRouter()
	for page, path := range pagePaths {
		r.Get(path, recordMatch(page))
	}
	r.Get("/home", recordMatch(PageHome))
	r.Get("/product/*", func(_ http.ResponseWriter, req *http.Request) {
		id, err := url.PathUnescape(chi.URLParam(req, "*"))
		if err != nil || strings.TrimSpace(id) == "" {
			return
		}
		setMatch(req, PageProduct, id)
	})
	return r
}

func recordMatch(page Page) http.HandlerFunc {
	return func(_ http.ResponseWriter, req *http.Request) {
		setMatch(req, page, "")
	}
}

func setMatch(req *http.Request, page Page, productID string) {
	if m, ok := req.Context().Value(matchKey{}).(*routeMatch); ok {
		m.page = page
		m.productID = productID
		m.matched = true
	}
}

// discardWriter satisfies the router; matches never produce a body.
type discardWriter struct{ header http.Header }

func (w *discardWriter) Header() http.Header {
	if w.header == nil {
		w.header = http.Header{}
	}
	return w.header
}

func (w *discardWriter) Write(b []byte) (int, error) { return len(b), nil }

func (w *discardWriter) WriteHeader(int) {}

// ParseAddress derives the navigation state from an address such as
// "/catalog?usageCategory=hajj&isNew=true". Unrecognized addresses yield Home.
func ParseAddress(address string) State {
	state, _ := Resolve(address)
	return state
}

// Resolve is ParseAddress that also reports whether the address matched a known page.
func Resolve(address string) (State, bool) {
	u, err := url.Parse(strings.TrimSpace(address))
	if err != nil {
		return Home(), false
	}
	path := strings.TrimRight(u.EscapedPath(), "/")
	if path == "" {
		path = "/"
	}

	m := &routeMatch{}
	req, err := http.NewRequestWithContext(context.WithValue(context.Background(), matchKey{}, m), http.MethodGet, "/", nil)
	if err != nil {
		return Home(), false
	}
	req.URL.Path = u.Path
	req.URL.RawPath = path
	routes.ServeHTTP(&discardWriter{}, req)
	if !m.matched {
		return Home(), false
	}

	state := State{Page: m.page, ProductID: m.productID}
	if state.Page == PageCatalog {
		state.Filter = parseFilter(u.Query())
	}
	return state, true
}

func parseFilter(q url.Values) *CatalogFilter {
	filter := CatalogFilter{
		Category:      strings.TrimSpace(q.Get(queryCategory)),
		ProductType:   strings.TrimSpace(q.Get(queryProductType)),
		UsageCategory: strings.TrimSpace(q.Get(queryUsageCategory)),
		IsNew:         q.Get(queryIsNew) == queryTrue,
		IsBestseller:  q.Get(queryIsBestseller) == queryTrue,
		IsMostLoved:   q.Get(queryIsMostLoved) == queryTrue,
	}
	if filter.IsZero() {
		return nil
	}
	return &filter
}

// EncodeAddress builds the canonical address of state. Only the product page can fail,
// when it has no product id.
func EncodeAddress(state State) (string, error) {
	switch state.Page {
	case PageProduct:
		id := strings.TrimSpace(state.ProductID)
		if id == "" {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "product page requires a product id").
				WithDetails(map[string]string{"productId": "is required"})
		}
		return "/product/" + url.PathEscape(id), nil
	case PageCatalog:
		return pagePaths[PageCatalog] + encodeFilter(state.Filter), nil
	}
	path, ok := pagePaths[state.Page]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown page").
			WithDetails(map[string]string{"page": string(state.Page)})
	}
	return path, nil
}

// encodeFilter writes the present fields in a fixed order. url.Values.Encode would
// sort the keys, so the query is assembled by hand.
func encodeFilter(filter *CatalogFilter) string {
	if filter == nil {
		return ""
	}
	var parts []string
	add := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			parts = append(parts, key+"="+url.QueryEscape(value))
		}
	}
	flag := func(key string, set bool) {
		if set {
			parts = append(parts, key+"="+queryTrue)
		}
	}
	add(queryCategory, filter.Category)
	add(queryProductType, filter.ProductType)
	add(queryUsageCategory, filter.UsageCategory)
	flag(queryIsNew, filter.IsNew)
	flag(queryIsBestseller, filter.IsBestseller)
	flag(queryIsMostLoved, filter.IsMostLoved)
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}
