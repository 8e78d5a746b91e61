package shopmcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rickchristie/shop-mcp/internal/dataurl"
)

// newID returns a prefixed opaque identifier, e.g. "usr_1a2b3c4d". The random
// tail comes from a fresh UUID, so identifiers are never reused.
func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}

// ListUsers returns every user. When brief is true only user_id and name are
// projected.
func (s *ShopMcp) ListUsers(ctx context.Context, brief bool) any {
	return s.guard(ctx, "users_list", func(ctx context.Context) (any, error) {
		query := "SELECT * FROM users"
		if brief {
			query = "SELECT user_id, name FROM users"
		}
		return s.queryRecords(ctx, query)
	})
}

// GetUser returns the user record for userID, or a soft not-found failure.
func (s *ShopMcp) GetUser(ctx context.Context, userID string) any {
	return s.guard(ctx, "users_get", func(ctx context.Context) (any, error) {
		record, err := s.queryRecord(ctx, "SELECT * FROM users WHERE user_id = $1", userID)
		if err != nil {
			return nil, err
		}
		if record.Empty() {
			return softFailure("User with ID '%s' not found.", userID), nil
		}
		return record, nil
	})
}

// AddUser inserts a new user with a generated usr_ identifier.
func (s *ShopMcp) AddUser(ctx context.Context, info NewUserInfo) any {
	return s.guard(ctx, "users_add_new_user", func(ctx context.Context) (any, error) {
		if err := info.Validate(); err != nil {
			return nil, err
		}
		userID := newID("usr")
		err := s.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			_, err := tx.Exec(ctx,
				`INSERT INTO users (user_id, name, email, phone_number, shipping_address)
				 VALUES ($1, $2, $3, $4, $5)`,
				userID, info.Name, info.Email, info.PhoneNumber, info.ShippingAddress)
			if err != nil {
				return fmt.Errorf("insert user: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		s.logger.Info().Str("user_id", userID).Msg("user added")
		return &AddUserResult{UserID: userID, Status: StatusSuccess}, nil
	})
}

// UpdateUser applies the non-nil fields of updates to userID. Zero provided
// fields is a validation failure; zero matched rows is a soft not-found
// failure, since the request was well-formed but referred to a nonexistent
// user.
func (s *ShopMcp) UpdateUser(ctx context.Context, userID string, updates UserUpdateInfo) any {
	return s.guard(ctx, "users_modify_user_info", func(ctx context.Context) (any, error) {
		cols, vals := updates.fields()
		if len(cols) == 0 {
			return nil, &ValidationError{Reason: "no fields provided to update"}
		}

		setClauses := make([]string, len(cols))
		for i, col := range cols {
			setClauses[i] = fmt.Sprintf("%s = $%d", col, i+1)
		}
		vals = append(vals, userID)
		query := fmt.Sprintf("UPDATE users SET %s WHERE user_id = $%d",
			strings.Join(setClauses, ", "), len(vals))

		var matched int64
		err := s.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
			tag, err := tx.Exec(ctx, query, vals...)
			if err != nil {
				return fmt.Errorf("update user: %w", err)
			}
			matched = tag.RowsAffected()
			return nil
		})
		if err != nil {
			return nil, err
		}
		if matched == 0 {
			return softFailure("User with ID '%s' not found.", userID), nil
		}

		s.logger.Info().Str("user_id", userID).Strs("updated_fields", cols).Msg("user updated")
		return &UpdateUserResult{UserID: userID, Status: StatusSuccess, UpdatedFields: cols}, nil
	})
}

// UserData resolves a free-form data:// string addressed at the users
// surface and dispatches to the matching operation. Unrecognized input is a
// soft failure naming the bad string — never an error.
func (s *ShopMcp) UserData(ctx context.Context, dataDetail string) any {
	route, ok := dataurl.Resolve(dataDetail)
	if !ok {
		return invalidDataDetail(dataDetail, "user")
	}
	switch route.Kind {
	case dataurl.User:
		return s.GetUser(ctx, route.ID)
	case dataurl.Users:
		return s.ListUsers(ctx, false)
	default:
		return invalidDataDetail(dataDetail, "user")
	}
}
