package shopmcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCP mounts the users, products, and orders surfaces — tools and
// data:// resources — on the given MCP server. Tool names carry their domain
// prefix (users_add_new_user, orders_create_order, ...) so the three surfaces
// stay distinct inside one addressable server.
func RegisterMCP(mcpServer *server.MCPServer, s *ShopMcp) {
	registerUserSurface(mcpServer, s)
	registerProductSurface(mcpServer, s)
	registerOrderSurface(mcpServer, s)
}

func registerUserSurface(mcpServer *server.MCPServer, s *ShopMcp) {
	mcpServer.AddResource(mcp.NewResource("data://users", "users",
		mcp.WithResourceDescription("All users with full details."),
		mcp.WithMIMEType("application/json"),
	), s.resourceHandler("users", s.UserData))

	mcpServer.AddResourceTemplate(mcp.NewResourceTemplate("data://users/user/{user_id}", "user",
		mcp.WithTemplateDescription("A single user record, addressed by user_id."),
		mcp.WithTemplateMIMEType("application/json"),
	), s.resourceHandler("user", s.UserData))

	addUserTool := mcp.NewTool("users_add_new_user",
		mcp.WithDescription("Add a new user with the provided information. Returns the new user's ID and a success status."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Full name of the user"),
		),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Unique email address of the user"),
		),
		mcp.WithString("phone_number",
			mcp.Description("Phone number of the user"),
		),
		mcp.WithString("shipping_address",
			mcp.Description("Shipping address for the user"),
		),
	)

	mcpServer.AddTool(addUserTool, s.loggedToolHandler("users_add_new_user", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError("name parameter is required"), nil
		}
		email, err := req.RequireString("email")
		if err != nil {
			return mcp.NewToolResultError("email parameter is required"), nil
		}
		info := NewUserInfo{Name: name, Email: email}
		if v := req.GetString("phone_number", ""); v != "" {
			info.PhoneNumber = &v
		}
		if v := req.GetString("shipping_address", ""); v != "" {
			info.ShippingAddress = &v
		}
		return toolResult(s.AddUser(ctx, info))
	}))

	modifyUserTool := mcp.NewTool("users_modify_user_info",
		mcp.WithDescription("Update one or more details for an existing user. Only provided fields are changed."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("The ID of the user to modify"),
		),
		mcp.WithString("name",
			mcp.Description("New full name of the user"),
		),
		mcp.WithString("email",
			mcp.Description("New email address of the user"),
		),
		mcp.WithString("phone_number",
			mcp.Description("New phone number of the user"),
		),
		mcp.WithString("shipping_address",
			mcp.Description("New shipping address for the user"),
		),
	)

	mcpServer.AddTool(modifyUserTool, s.loggedToolHandler("users_modify_user_info", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcp.NewToolResultError("user_id parameter is required"), nil
		}
		var updates UserUpdateInfo
		if v := req.GetString("name", ""); v != "" {
			updates.Name = &v
		}
		if v := req.GetString("email", ""); v != "" {
			updates.Email = &v
		}
		if v := req.GetString("phone_number", ""); v != "" {
			updates.PhoneNumber = &v
		}
		if v := req.GetString("shipping_address", ""); v != "" {
			updates.ShippingAddress = &v
		}
		return toolResult(s.UpdateUser(ctx, userID, updates))
	}))

	mcpServer.AddTool(dataDetailTool("users_get_user_data",
		"Query user data without calling the specific resource. data_detail must be "+
			"data://users for all users, or data://users/user/{user_id} for a specific user.",
	), s.loggedToolHandler("users_get_user_data", s.dataDetailHandler(s.UserData)))
}

func registerProductSurface(mcpServer *server.MCPServer, s *ShopMcp) {
	mcpServer.AddResource(mcp.NewResource("data://products", "products",
		mcp.WithResourceDescription("All products with full details, including price and stock."),
		mcp.WithMIMEType("application/json"),
	), s.resourceHandler("products", s.ProductData))

	mcpServer.AddResourceTemplate(mcp.NewResourceTemplate("data://products/product/{product_id}", "product",
		mcp.WithTemplateDescription("A single product record, addressed by product_id."),
		mcp.WithTemplateMIMEType("application/json"),
	), s.resourceHandler("product", s.ProductData))

	mcpServer.AddTool(dataDetailTool("products_get_product_data",
		"Query product data without calling the specific resource. data_detail must be "+
			"data://products for all products, or data://products/product/{product_id} for a specific product.",
	), s.loggedToolHandler("products_get_product_data", s.dataDetailHandler(s.ProductData)))
}

func registerOrderSurface(mcpServer *server.MCPServer, s *ShopMcp) {
	mcpServer.AddResource(mcp.NewResource("data://orders", "orders",
		mcp.WithResourceDescription("All orders, newest purchase first."),
		mcp.WithMIMEType("application/json"),
	), s.resourceHandler("orders", s.OrderData))

	mcpServer.AddResourceTemplate(mcp.NewResourceTemplate("data://orders/order/{order_id}", "order",
		mcp.WithTemplateDescription("A single order record, addressed by order_id."),
		mcp.WithTemplateMIMEType("application/json"),
	), s.resourceHandler("order", s.OrderData))

	mcpServer.AddResourceTemplate(mcp.NewResourceTemplate("data://orders/user/{user_id}", "user_orders",
		mcp.WithTemplateDescription("Purchase history for a single user, enriched with product name and price."),
		mcp.WithTemplateMIMEType("application/json"),
	), s.resourceHandler("user_orders", s.OrderData))

	createOrderTool := mcp.NewTool("orders_create_order",
		mcp.WithDescription("Place a new order. Validates stock and decrements the product's stock quantity atomically."),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("The ID of the user placing the order"),
		),
		mcp.WithString("product_id",
			mcp.Required(),
			mcp.Description("The ID of the product being ordered"),
		),
		mcp.WithNumber("quantity",
			mcp.Required(),
			mcp.Description("The number of units to order. Must be positive"),
		),
	)

	mcpServer.AddTool(createOrderTool, s.loggedToolHandler("orders_create_order", func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcp.NewToolResultError("user_id parameter is required"), nil
		}
		productID, err := req.RequireString("product_id")
		if err != nil {
			return mcp.NewToolResultError("product_id parameter is required"), nil
		}
		quantity, err := req.RequireInt("quantity")
		if err != nil {
			return mcp.NewToolResultError("quantity parameter is required"), nil
		}
		return toolResult(s.CreateOrder(ctx, NewOrderInfo{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}))
	}))

	mcpServer.AddTool(dataDetailTool("orders_get_order_data",
		"Query order data without calling the specific resource. data_detail must be "+
			"data://orders for all orders, data://orders/order/{order_id} for a specific order, "+
			"or data://orders/user/{user_id} for a user's purchase history.",
	), s.loggedToolHandler("orders_get_order_data", s.dataDetailHandler(s.OrderData)))
}

// dataDetailTool builds the shared shape of the free-form get_*_data tools.
func dataDetailTool(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("data_detail",
			mcp.Required(),
			mcp.Description("The data:// URL of the data to retrieve"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// dataDetailHandler adapts a domain free-form dispatch to an MCP tool handler.
func (s *ShopMcp) dataDetailHandler(dispatch func(ctx context.Context, dataDetail string) any) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dataDetail, err := req.RequireString("data_detail")
		if err != nil {
			return mcp.NewToolResultError("data_detail parameter is required"), nil
		}
		return toolResult(dispatch(ctx, dataDetail))
	}
}

// resourceHandler adapts a domain free-form dispatch to an MCP resource
// read handler. Resources and the get_*_data tools share the dispatch, so
// equivalent requests behave identically on both surfaces.
func (s *ShopMcp) resourceHandler(name string, dispatch func(ctx context.Context, uri string) any) func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		result := dispatch(ctx, req.Params.URI)
		jsonBytes, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		s.logger.Info().
			Str("resource", name).
			Str("uri", req.Params.URI).
			Int("response_bytes", len(jsonBytes)).
			Msg("resource read")
		return []mcp.ResourceContents{mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		}}, nil
	}
}

// toolResult marshals a domain result for the MCP transport. Failures are
// values too, so they are returned as normal text content — the agent checks
// the status field.
func toolResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError("failed to marshal result"), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// loggedToolHandler wraps a tool handler to log request and response lengths.
func (s *ShopMcp) loggedToolHandler(tool string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reqLen := requestLength(req)
		result, err := handler(ctx, req)
		respLen := resultLength(result)
		s.logger.Info().
			Str("tool", tool).
			Int("request_bytes", reqLen).
			Int("response_bytes", respLen).
			Msg("tool call")
		return result, err
	}
}

// requestLength returns the JSON-encoded byte length of the request arguments.
func requestLength(req mcp.CallToolRequest) int {
	args := req.GetArguments()
	if len(args) == 0 {
		return 0
	}
	b, err := json.Marshal(args)
	if err != nil {
		return 0
	}
	return len(b)
}

// resultLength returns the total byte length of text content in a CallToolResult.
func resultLength(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	total := 0
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			total += len(tc.Text)
		}
	}
	return total
}
