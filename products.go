package shopmcp

import (
	"context"

	"github.com/rickchristie/shop-mcp/internal/dataurl"
)

// ListProducts returns every product. When brief is true only product_id and
// product_name are projected.
func (s *ShopMcp) ListProducts(ctx context.Context, brief bool) any {
	return s.guard(ctx, "products_list", func(ctx context.Context) (any, error) {
		query := "SELECT * FROM products"
		if brief {
			query = "SELECT product_id, product_name FROM products"
		}
		return s.queryRecords(ctx, query)
	})
}

// GetProduct returns the product record for productID, or a soft not-found
// failure.
func (s *ShopMcp) GetProduct(ctx context.Context, productID string) any {
	return s.guard(ctx, "products_get", func(ctx context.Context) (any, error) {
		record, err := s.queryRecord(ctx, "SELECT * FROM products WHERE product_id = $1", productID)
		if err != nil {
			return nil, err
		}
		if record.Empty() {
			return softFailure("Product with ID '%s' not found.", productID), nil
		}
		return record, nil
	})
}

// ProductData resolves a free-form data:// string addressed at the products
// surface. Unrecognized input is a soft failure, never an error.
func (s *ShopMcp) ProductData(ctx context.Context, dataDetail string) any {
	route, ok := dataurl.Resolve(dataDetail)
	if !ok {
		return invalidDataDetail(dataDetail, "product")
	}
	switch route.Kind {
	case dataurl.Product:
		return s.GetProduct(ctx, route.ID)
	case dataurl.Products:
		return s.ListProducts(ctx, false)
	default:
		return invalidDataDetail(dataDetail, "product")
	}
}
