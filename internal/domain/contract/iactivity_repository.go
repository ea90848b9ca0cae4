package contract

import (
	"context"

	"github.com/hivebuzz/hivebuzz/internal/domain/entity"
)

// IActivityRepository records user activity events.
type IActivityRepository interface {
	LogActivity(ctx context.Context, activity *entity.Activity) error
	GetRecentActivity(ctx context.Context, username string, limit int) ([]entity.Activity, error)
}
