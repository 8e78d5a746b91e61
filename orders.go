package shopmcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rickchristie/shop-mcp/internal/dataurl"
	"github.com/rickchristie/shop-mcp/internal/rowmap"
)

// ListOrders returns every order, newest purchase first.
func (s *ShopMcp) ListOrders(ctx context.Context) any {
	return s.guard(ctx, "orders_list", func(ctx context.Context) (any, error) {
		return s.queryRecords(ctx, "SELECT * FROM orders ORDER BY purchase_date DESC")
	})
}

// GetOrder returns the order record for orderID, or a soft not-found failure.
func (s *ShopMcp) GetOrder(ctx context.Context, orderID string) any {
	return s.guard(ctx, "orders_get", func(ctx context.Context) (any, error) {
		record, err := s.queryRecord(ctx, "SELECT * FROM orders WHERE order_id = $1", orderID)
		if err != nil {
			return nil, err
		}
		if record.Empty() {
			return softFailure("Order with ID '%s' not found.", orderID), nil
		}
		return record, nil
	})
}

// UserPurchaseHistory returns the user's orders enriched with product name
// and price, newest first. A user with no orders yields a single
// informational record rather than an empty sequence, so the agent sees an
// explicit answer instead of silence.
func (s *ShopMcp) UserPurchaseHistory(ctx context.Context, userID string) any {
	return s.guard(ctx, "orders_user_history", func(ctx context.Context) (any, error) {
		records, err := s.queryRecords(ctx, `
			SELECT o.order_id, o.purchase_date, o.status, p.product_name, o.quantity, p.price
			FROM orders o JOIN products p ON o.product_id = p.product_id
			WHERE o.user_id = $1 ORDER BY o.purchase_date DESC`, userID)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return []rowmap.Record{{
				Columns: []string{"message"},
				Values:  []any{fmt.Sprintf("No orders found for user ID '%s'.", userID)},
			}}, nil
		}
		return records, nil
	})
}

// CreateOrder places an order: stock check, order insert, and stock
// decrement, all within one transaction. The decrement is a single
// conditional UPDATE that re-checks stock_quantity >= quantity, so two
// concurrent placements against the same product can never drive stock
// negative — the losing transaction matches zero rows and aborts.
func (s *ShopMcp) CreateOrder(ctx context.Context, info NewOrderInfo) any {
	return s.guard(ctx, "orders_create_order", func(ctx context.Context) (any, error) {
		if err := info.Validate(); err != nil {
			return nil, err
		}

		orderID := newID("ord")
		err := s.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			// The read only shapes the failure for unknown or visibly
			// understocked products; the conditional UPDATE below is the
			// enforcement point.
			var stock int
			err := tx.QueryRow(ctx,
				"SELECT stock_quantity FROM products WHERE product_id = $1",
				info.ProductID).Scan(&stock)
			if errors.Is(err, pgx.ErrNoRows) {
				return &RejectedError{Reason: fmt.Sprintf("insufficient stock for product %s", info.ProductID)}
			}
			if err != nil {
				return fmt.Errorf("stock check: %w", err)
			}
			if stock < info.Quantity {
				return &RejectedError{Reason: fmt.Sprintf("insufficient stock for product %s", info.ProductID)}
			}

			if _, err := tx.Exec(ctx,
				`INSERT INTO orders (order_id, user_id, product_id, quantity, purchase_date, status)
				 VALUES ($1, $2, $3, $4, CURRENT_DATE, 'submitted')`,
				orderID, info.UserID, info.ProductID, info.Quantity); err != nil {
				return fmt.Errorf("insert order: %w", err)
			}

			tag, err := tx.Exec(ctx,
				`UPDATE products SET stock_quantity = stock_quantity - $1
				 WHERE product_id = $2 AND stock_quantity >= $1`,
				info.Quantity, info.ProductID)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return &RejectedError{Reason: fmt.Sprintf("insufficient stock for product %s", info.ProductID)}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		s.logger.Info().
			Str("order_id", orderID).
			Str("user_id", info.UserID).
			Str("product_id", info.ProductID).
			Int("quantity", info.Quantity).
			Msg("order placed")
		return &CreateOrderResult{OrderID: orderID, Status: StatusSuccess}, nil
	})
}

// OrderData resolves a free-form data:// string addressed at the orders
// surface. Unrecognized input is a soft failure, never an error.
func (s *ShopMcp) OrderData(ctx context.Context, dataDetail string) any {
	route, ok := dataurl.Resolve(dataDetail)
	if !ok {
		return invalidDataDetail(dataDetail, "order")
	}
	switch route.Kind {
	case dataurl.Order:
		return s.GetOrder(ctx, route.ID)
	case dataurl.UserOrders:
		return s.UserPurchaseHistory(ctx, route.ID)
	case dataurl.Orders:
		return s.ListOrders(ctx)
	default:
		return invalidDataDetail(dataDetail, "order")
	}
}
