// Package dataurl resolves data:// URIs to store operations. The same
// resolver backs both addressing surfaces — MCP resource reads and the
// free-form get_*_data tools — so equivalent requests behave identically.
package dataurl

import "strings"

// Kind identifies the store operation a data:// URI addresses.
type Kind int

const (
	Invalid Kind = iota
	Users
	User
	Products
	Product
	Orders
	Order
	UserOrders
)

// Route is the result of resolving a data:// URI. ID is set only for
// single-entity and user-scoped kinds.
type Route struct {
	Kind Kind
	ID   string
}

type entry struct {
	prefix string
	exact  bool
	kind   Kind
}

// entries are evaluated top to bottom: single-entity prefixes before the bare
// collection URIs, so the most specific template wins.
var entries = []entry{
	{prefix: "data://users/user/", kind: User},
	{prefix: "data://products/product/", kind: Product},
	{prefix: "data://orders/order/", kind: Order},
	{prefix: "data://orders/user/", kind: UserOrders},
	{prefix: "data://users", exact: true, kind: Users},
	{prefix: "data://products", exact: true, kind: Products},
	{prefix: "data://orders", exact: true, kind: Orders},
}

// Resolve matches uri against the known templates, first matching entry
// wins. For entity templates the trailing path segment is the identifier;
// an empty identifier does not match. Returns false for unrecognized input.
func Resolve(uri string) (Route, bool) {
	for _, e := range entries {
		if e.exact {
			if uri == e.prefix {
				return Route{Kind: e.kind}, true
			}
			continue
		}
		if rest, ok := strings.CutPrefix(uri, e.prefix); ok {
			id := rest[strings.LastIndexByte(rest, '/')+1:]
			if id == "" {
				return Route{}, false
			}
			return Route{Kind: e.kind, ID: id}, true
		}
	}
	return Route{}, false
}
