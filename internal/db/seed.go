package db

import (
	"context"
	"strings"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/friendsofgo/errors"
)

// CategoryNames is the default category list.
var CategoryNames = []string{
	"Film & Animation",
	"Cars & Vehicles",
	"Music",
	"Pets & Animals",
	"Sports",
	"Travel & Events",
	"Gaming",
	"People & Blogs",
	"Comedy",
	"Entertainment",
	"News & Politics",
	"Howto & Style",
	"Education",
	"Science & Technology",
	"Nonprofits & Activism",
}

const insertCategory = `INSERT INTO categories (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`

// SeedCategories inserts the default categories, skipping names that already
// exist. It returns the number of rows inserted.
func SeedCategories(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	var inserted int64
	for _, name := range CategoryNames {
		description := "Videos related to " + strings.ToLower(name)

		res, err := queries.Raw(insertCategory, name, description).ExecContext(ctx, exec)
		if err != nil {
			return inserted, errors.Wrapf(err, "failed to seed category %q", name)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, errors.Wrap(err, "failed to read affected rows")
		}
		inserted += n
	}
	return inserted, nil
}
