package shopmcp

import "fmt"

// Statuses reported in outward results.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Failure is the normalized form of a hard failure: malformed input, a
// business-rule rejection, or a store fault. Produced only by the error
// normalizer — callers check Status instead of handling errors.
type Failure struct {
	Status       string `json:"status"`
	ErrorType    string `json:"error_type"`
	ErrorMessage string `json:"error_message"`
}

// SoftFailure reports a well-formed request that referred to a nonexistent
// entity or an unrecognized data URI. Returned as a normal value from inside
// the domain modules, never through the error path, so callers can tell
// "entity absent" apart from "request rejected".
type SoftFailure struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func softFailure(format string, args ...any) *SoftFailure {
	return &SoftFailure{Status: StatusFailure, Message: fmt.Sprintf(format, args...)}
}

func invalidDataDetail(dataDetail, domain string) *SoftFailure {
	return softFailure("Invalid data detail: %s. Please use a valid %s data URL.", dataDetail, domain)
}

// ValidationError reports malformed input, caught before the store is touched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// RejectedError reports a business-rule violation, such as insufficient stock.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string { return e.Reason }

// NewUserInfo is the input for the users_add_new_user tool.
type NewUserInfo struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	PhoneNumber     *string `json:"phone_number,omitempty"`
	ShippingAddress *string `json:"shipping_address,omitempty"`
}

// Validate checks the required fields.
func (u NewUserInfo) Validate() error {
	if u.Name == "" {
		return &ValidationError{Reason: "name must be non-empty"}
	}
	if u.Email == "" {
		return &ValidationError{Reason: "email must be non-empty"}
	}
	return nil
}

// UserUpdateInfo carries the fields of users_modify_user_info. Only non-nil
// fields are written.
type UserUpdateInfo struct {
	Name            *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty"`
	PhoneNumber     *string `json:"phone_number,omitempty"`
	ShippingAddress *string `json:"shipping_address,omitempty"`
}

// fields returns the non-nil column/value pairs in declaration order.
func (u UserUpdateInfo) fields() ([]string, []any) {
	var cols []string
	var vals []any
	if u.Name != nil {
		cols = append(cols, "name")
		vals = append(vals, *u.Name)
	}
	if u.Email != nil {
		cols = append(cols, "email")
		vals = append(vals, *u.Email)
	}
	if u.PhoneNumber != nil {
		cols = append(cols, "phone_number")
		vals = append(vals, *u.PhoneNumber)
	}
	if u.ShippingAddress != nil {
		cols = append(cols, "shipping_address")
		vals = append(vals, *u.ShippingAddress)
	}
	return cols, vals
}

// AddUserResult is the success result of users_add_new_user.
type AddUserResult struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

// UpdateUserResult is the success result of users_modify_user_info.
type UpdateUserResult struct {
	UserID        string   `json:"user_id"`
	Status        string   `json:"status"`
	UpdatedFields []string `json:"updated_fields"`
}

// NewOrderInfo is the input for the orders_create_order tool.
type NewOrderInfo struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Validate checks the required fields. Quantity must be positive; the check
// runs before any statement reaches the store.
func (o NewOrderInfo) Validate() error {
	if o.UserID == "" {
		return &ValidationError{Reason: "user_id must be non-empty"}
	}
	if o.ProductID == "" {
		return &ValidationError{Reason: "product_id must be non-empty"}
	}
	if o.Quantity <= 0 {
		return &ValidationError{Reason: "quantity must be a positive integer"}
	}
	return nil
}

// CreateOrderResult is the success result of orders_create_order.
type CreateOrderResult struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
