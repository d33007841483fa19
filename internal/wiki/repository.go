package wiki

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Repository defines read access to the wiki's content tables. It is the
// only place that knows the legacy schema, so a future content/slots
// variant can be swapped in without touching the export loop.
type Repository interface {
	ForEachPageText(ctx context.Context, filter Filter, fn func(PageText) error) error
}

// GormRepository reads pages using a Gorm database connection.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormRepository{db: db, logger: logger}, nil
}

var _ Repository = (*GormRepository)(nil)

// ForEachPageText streams the page → revision → text join, calling fn
// once per page in page_id order. An error returned by fn aborts the
// iteration and is returned unchanged.
func (r *GormRepository) ForEachPageText(ctx context.Context, filter Filter, fn func(PageText) error) error {
	if fn == nil {
		return eris.New("row callback is required")
	}

	query, args := buildPageTextQuery(filter)

	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		r.logError(nil, err, "querying page text")
		return eris.Wrap(err, "querying page text")
	}
	defer rows.Close()

	for rows.Next() {
		var row PageText
		scanErr := rows.Scan(
			&row.PageID,
			&row.Title,
			&row.Namespace,
			&row.Latest,
			&row.RevID,
			&row.TextRef,
			&row.TextID,
			&row.Text,
		)
		if scanErr != nil {
			r.logError(nil, scanErr, "scanning page text row")
			return eris.Wrap(scanErr, "scanning page text row")
		}

		if err := fn(row); err != nil {
			return err
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		r.logError(nil, rowsErr, "iterating page text rows")
		return eris.Wrap(rowsErr, "iterating page text rows")
	}

	return nil
}

// buildPageTextQuery renders the export join with the optional namespace
// and limit clauses. `text` is backtick-quoted because it collides with
// the SQL type name.
func buildPageTextQuery(filter Filter) (string, []interface{}) {
	var query strings.Builder
	var args []interface{}

	query.WriteString(
		"SELECT p.page_id, p.page_title, p.page_namespace, p.page_latest, " +
			"r.rev_id, r.rev_text_id, t.old_id, t.old_text " +
			"FROM page p " +
			"LEFT JOIN revision r ON r.rev_id = p.page_latest " +
			"LEFT JOIN `text` t ON t.old_id = r.rev_text_id " +
			"WHERE p.page_latest IS NOT NULL")

	if filter.Namespace != nil {
		query.WriteString(" AND p.page_namespace = ?")
		args = append(args, *filter.Namespace)
	}

	query.WriteString(" ORDER BY p.page_id")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	return query.String(), args
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
