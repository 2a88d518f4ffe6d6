package postgres

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/f2expert/f2expert-sub001/domain/repositories"
)

// translateError maps gorm errors onto the repository sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	}
	return err
}

// orderBy builds an ORDER BY from an API sort field. Unknown fields fall
// back to fallback. id breaks ties so pages are stable.
func orderBy(columns map[string]string, opts repositories.ListOptions, fallback string) string {
	column, ok := columns[opts.SortBy]
	if !ok {
		column = fallback
	}
	dir := "ASC"
	if opts.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id %s", column, dir, dir)
}

// likePattern escapes s for use in ILIKE '%s%'.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

func paginate(opts repositories.ListOptions) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if opts.Limit > 0 {
			db = db.Limit(opts.Limit)
		}
		if opts.Offset > 0 {
			db = db.Offset(opts.Offset)
		}
		return db
	}
}
