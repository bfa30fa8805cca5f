package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cafe_finder/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repo) UpsertCafe(ctx context.Context, c domain.Cafe) error {
	amenities := c.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	images := c.Images
	if images == nil {
		images = []string{}
	}

	args := make([]any, 0, 21)
	args = append(args, c.ID, c.Name, c.Description, c.Address, c.Latitude, c.Longitude,
		valStr(c.Phone), valStr(c.Website), c.Rating, c.ReviewCount, c.PriceLevel)
	for _, v := range []any{c.Hours, c.Wifi} {
		s, err := valJSON(v)
		if err != nil {
			return fmt.Errorf("encode cafe %s: %w", c.ID, err)
		}
		args = append(args, s)
	}
	args = append(args, c.PowerOutlets, string(c.NoiseLevel), c.StudyFriendly)
	for _, v := range [][]string{amenities, tags, images} {
		s, err := valJSON(v)
		if err != nil {
			return fmt.Errorf("encode cafe %s: %w", c.ID, err)
		}
		args = append(args, s)
	}
	args = append(args, c.CreatedAt.UTC(), c.UpdatedAt.UTC())

	_, err := r.db.ExecContext(ctx, upsertCafeSQL, args...)
	return err
}

func (r *Repo) DeleteCafe(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteCafeSQL, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("cafe %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) AdjustRating(ctx context.Context, id string, rating, delta int, at time.Time) (domain.Cafe, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Cafe{}, err
	}
	defer func() { _ = tx.Rollback() }()

	c, err := scanCafe(tx.QueryRowContext(ctx, lockCafeSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cafe{}, fmt.Errorf("cafe %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Cafe{}, err
	}
	c.ApplyReviewRating(rating, delta)
	c.UpdatedAt = at.UTC()
	if _, err := tx.ExecContext(ctx, updateRatingSQL, c.Rating, c.ReviewCount, c.UpdatedAt, id); err != nil {
		return domain.Cafe{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Cafe{}, err
	}
	return c, nil
}

func (r *Repo) ListCafes(ctx context.Context) ([]domain.Cafe, error) {
	rows, err := r.db.QueryContext(ctx, listCafesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Cafe{}
	for rows.Next() {
		c, err := scanCafe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCafe(ctx context.Context, id string) (domain.Cafe, error) {
	c, err := scanCafe(r.db.QueryRowContext(ctx, getCafeSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cafe{}, fmt.Errorf("cafe %s: %w", id, domain.ErrNotFound)
	}
	return c, err
}

func scanCafe(row rowScanner) (domain.Cafe, error) {
	var (
		c                       domain.Cafe
		phone, website          sql.NullString
		noise                   string
		hoursJSON, wifiJSON     []byte
		amenities, tags, images []byte
	)
	if err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Address,
		&c.Latitude, &c.Longitude,
		&phone, &website,
		&c.Rating, &c.ReviewCount, &c.PriceLevel,
		&hoursJSON, &wifiJSON,
		&c.PowerOutlets, &noise, &c.StudyFriendly,
		&amenities, &tags, &images,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return domain.Cafe{}, err
	}
	if phone.Valid {
		s := phone.String
		c.Phone = &s
	}
	if website.Valid {
		s := website.String
		c.Website = &s
	}
	c.NoiseLevel = domain.NoiseLevel(noise)

	for _, f := range []struct {
		raw []byte
		dst any
	}{
		{hoursJSON, &c.Hours},
		{wifiJSON, &c.Wifi},
		{amenities, &c.Amenities},
		{tags, &c.Tags},
		{images, &c.Images},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return domain.Cafe{}, fmt.Errorf("decode cafe %s: %w", c.ID, err)
		}
	}
	return c, nil
}

func (r *Repo) AddReview(ctx context.Context, rv domain.Review) error {
	if _, err := r.GetCafe(ctx, rv.CafeID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.ID,
		rv.CafeID,
		valStr(rv.UserID),
		rv.UserName,
		rv.UserAvatar,
		rv.Rating,
		valInt(rv.StudyRating),
		valInt(rv.WifiRating),
		valInt(rv.NoiseRating),
		rv.Comment,
		rv.Helpful,
		string(rv.Status),
		rv.CreatedAt.UTC(),
	)
	return err
}

func (r *Repo) GetReview(ctx context.Context, id string) (domain.Review, error) {
	rv, err := scanReview(r.db.QueryRowContext(ctx, getReviewSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, fmt.Errorf("review %s: %w", id, domain.ErrNotFound)
	}
	return rv, err
}

func (r *Repo) ListReviews(ctx context.Context, cafeID string) ([]domain.Review, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if cafeID == "" {
		rows, err = r.db.QueryContext(ctx, listAllReviewsSQL)
	} else {
		rows, err = r.db.QueryContext(ctx, listReviewsSQL, cafeID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) IncrementHelpful(ctx context.Context, id string) (domain.Review, error) {
	if _, err := r.GetReview(ctx, id); err != nil {
		return domain.Review{}, err
	}
	if _, err := r.db.ExecContext(ctx, incrementHelpfulSQL, id); err != nil {
		return domain.Review{}, err
	}
	return r.GetReview(ctx, id)
}

func (r *Repo) SetReviewStatus(ctx context.Context, id string, status domain.ReviewStatus) (domain.Review, error) {
	if _, err := r.GetReview(ctx, id); err != nil {
		return domain.Review{}, err
	}
	if _, err := r.db.ExecContext(ctx, setReviewStatusSQL, string(status), id); err != nil {
		return domain.Review{}, err
	}
	return r.GetReview(ctx, id)
}

func scanReview(row rowScanner) (domain.Review, error) {
	var (
		rv                 domain.Review
		userID             sql.NullString
		study, wifi, noise sql.NullInt64
		status             string
	)
	if err := row.Scan(
		&rv.ID,
		&rv.CafeID,
		&userID,
		&rv.UserName,
		&rv.UserAvatar,
		&rv.Rating,
		&study, &wifi, &noise,
		&rv.Comment,
		&rv.Helpful,
		&status,
		&rv.CreatedAt,
	); err != nil {
		return domain.Review{}, err
	}
	if userID.Valid {
		s := userID.String
		rv.UserID = &s
	}
	rv.StudyRating = nullInt(study)
	rv.WifiRating = nullInt(wifi)
	rv.NoiseRating = nullInt(noise)
	rv.Status = domain.ReviewStatus(status)
	return rv, nil
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	i := int(n.Int64)
	return &i
}
