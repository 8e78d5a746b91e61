// Package shopmcp exposes an e-commerce relational store — users, products,
// and orders — to AI agents through the Model Context Protocol (MCP).
//
// Each table is addressable two ways: as a read-only data:// resource
// (data://users, data://orders/user/{user_id}, ...) and through tools the
// agent can call (users_add_new_user, orders_create_order, and the free-form
// users_get_user_data / products_get_product_data / orders_get_order_data,
// which accept a data:// string and route it themselves). Both surfaces share
// one dispatch table, so equivalent requests behave identically.
//
// Every operation runs on its own pooled connection inside one transaction:
// the unit of work either commits whole or leaves no trace. Failures never
// propagate to the caller — hard failures are normalized into
// {status, error_type, error_message} records, and not-found lookups return
// {status, message} values the agent can inspect. Order placement checks
// stock and decrements it with a single conditional UPDATE, so concurrent
// orders can never drive stock negative.
//
// # Library Usage
//
//	s, err := shopmcp.New(ctx, connString, shopmcp.Config{
//		Pool: shopmcp.PoolConfig{MaxConns: 10},
//	}, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close(ctx)
//
//	// Use directly
//	result := s.CreateOrder(ctx, shopmcp.NewOrderInfo{
//		UserID:    "usr_1a2b3c4d",
//		ProductID: "prod_1",
//		Quantity:  2,
//	})
//
//	// Or mount on an MCP server
//	shopmcp.RegisterMCP(mcpServer, s)
//
// Sanitization rules can redact result values (emails, phone numbers) before
// they reach the agent, and error prompts can append steering guidance to
// failures — both configured as regex rules, see [Config].
//
// For configuration reference and deployment examples, see:
// https://github.com/rickchristie/shop-mcp
package shopmcp
