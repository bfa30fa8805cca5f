package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cafe_finder/internal/domain"
)

const defaultAvatar = "/placeholder.svg?height=40&width=40"

var validate = validator.New(validator.WithRequiredStructEnabled())

type ReviewInput struct {
	UserID      *string `json:"userId,omitempty"`
	UserName    string  `json:"userName" validate:"required,max=80"`
	Rating      int     `json:"rating" validate:"required,min=1,max=5"`
	StudyRating *int    `json:"studyRating,omitempty" validate:"omitempty,min=1,max=5"`
	WifiRating  *int    `json:"wifiRating,omitempty" validate:"omitempty,min=1,max=5"`
	NoiseRating *int    `json:"noiseRating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment     string  `json:"comment" validate:"required,max=4000"`
}

type CafeInput struct {
	Name          string              `json:"name" validate:"required,max=120"`
	Description   string              `json:"description" validate:"max=2000"`
	Address       string              `json:"address" validate:"required,max=255"`
	Latitude      float64             `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude     float64             `json:"longitude" validate:"gte=-180,lte=180"`
	Phone         *string             `json:"phone,omitempty" validate:"omitempty,max=40"`
	Website       *string             `json:"website,omitempty" validate:"omitempty,url"`
	Rating        float64             `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount   int                 `json:"reviewCount" validate:"gte=0"`
	PriceLevel    int                 `json:"priceLevel" validate:"min=1,max=4"`
	Hours         *domain.WeeklyHours `json:"hours,omitempty"`
	Wifi          domain.Wifi         `json:"wifi"`
	PowerOutlets  bool                `json:"powerOutlets"`
	NoiseLevel    domain.NoiseLevel   `json:"noiseLevel" validate:"oneof=quiet moderate lively"`
	StudyFriendly bool                `json:"studyFriendly"`
	Amenities     []string            `json:"amenities"`
	Tags          []string            `json:"tags"`
	Images        []string            `json:"images"`
}

// CafePatch is a partial update; nil fields keep their current value.
type CafePatch struct {
	Name          *string             `json:"name,omitempty"`
	Description   *string             `json:"description,omitempty"`
	Address       *string             `json:"address,omitempty"`
	Latitude      *float64            `json:"latitude,omitempty"`
	Longitude     *float64            `json:"longitude,omitempty"`
	Phone         *string             `json:"phone,omitempty"`
	Website       *string             `json:"website,omitempty"`
	Rating        *float64            `json:"rating,omitempty"`
	ReviewCount   *int                `json:"reviewCount,omitempty"`
	PriceLevel    *int                `json:"priceLevel,omitempty"`
	Hours         *domain.WeeklyHours `json:"hours,omitempty"`
	Wifi          *domain.Wifi        `json:"wifi,omitempty"`
	PowerOutlets  *bool               `json:"powerOutlets,omitempty"`
	NoiseLevel    *domain.NoiseLevel  `json:"noiseLevel,omitempty"`
	StudyFriendly *bool               `json:"studyFriendly,omitempty"`
	Amenities     []string            `json:"amenities,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
	Images        []string            `json:"images,omitempty"`
}

type CommandService struct {
	repo          domain.Repository
	cache         domain.Cache
	now           Clock
	defaultStatus domain.ReviewStatus
}

// NewCommandService wires the write side. cache may be nil; an invalid
// defaultStatus falls back to approved.
func NewCommandService(r domain.Repository, c domain.Cache, now Clock, defaultStatus domain.ReviewStatus) *CommandService {
	if now == nil {
		now = ClockIn(nil)
	}
	if !defaultStatus.Valid() {
		defaultStatus = domain.ReviewApproved
	}
	return &CommandService{repo: r, cache: c, now: now, defaultStatus: defaultStatus}
}

/********** reviews **********/

func (s *CommandService) AddReview(ctx context.Context, cafeID string, in ReviewInput) (domain.Review, error) {
	in.UserName = strings.TrimSpace(in.UserName)
	in.Comment = strings.TrimSpace(in.Comment)
	if err := validateStruct(in); err != nil {
		return domain.Review{}, err
	}

	rv := domain.Review{
		ID:          uuid.NewString(),
		CafeID:      cafeID,
		UserID:      in.UserID,
		UserName:    in.UserName,
		UserAvatar:  defaultAvatar,
		Rating:      in.Rating,
		StudyRating: in.StudyRating,
		WifiRating:  in.WifiRating,
		NoiseRating: in.NoiseRating,
		Comment:     in.Comment,
		CreatedAt:   s.now(),
		Status:      s.defaultStatus,
	}
	if err := s.repo.AddReview(ctx, rv); err != nil {
		return domain.Review{}, err
	}

	if rv.Status.Visible() {
		if _, err := s.repo.AdjustRating(ctx, cafeID, rv.Rating, 1, rv.CreatedAt); err != nil {
			return domain.Review{}, fmt.Errorf("update cafe %s aggregates: %w", cafeID, err)
		}
	}

	s.invalidateCafe(ctx, cafeID)
	log.Info().Str("cafe_id", cafeID).Str("review_id", rv.ID).Str("status", string(rv.Status)).Msg("review added")
	return rv, nil
}

func (s *CommandService) MarkHelpful(ctx context.Context, reviewID string) (domain.Review, error) {
	rv, err := s.repo.IncrementHelpful(ctx, reviewID)
	if err != nil {
		return domain.Review{}, err
	}
	s.invalidateReviews(ctx, rv.CafeID)
	return rv, nil
}

func (s *CommandService) ModerateReview(ctx context.Context, reviewID string, status domain.ReviewStatus) (domain.Review, error) {
	if !status.Valid() {
		return domain.Review{}, fmt.Errorf("%w: unknown review status %q", domain.ErrValidation, status)
	}
	prev, err := s.repo.GetReview(ctx, reviewID)
	if err != nil {
		return domain.Review{}, err
	}
	rv, err := s.repo.SetReviewStatus(ctx, reviewID, status)
	if err != nil {
		return domain.Review{}, err
	}

	// a review entering or leaving public view moves the café aggregates
	if prev.Status.Visible() != status.Visible() {
		delta := 1
		if !status.Visible() {
			delta = -1
		}
		if _, err := s.repo.AdjustRating(ctx, rv.CafeID, rv.Rating, delta, s.now()); err != nil {
			return domain.Review{}, fmt.Errorf("update cafe %s aggregates: %w", rv.CafeID, err)
		}
	}
	s.invalidateCafe(ctx, rv.CafeID)
	log.Info().Str("review_id", reviewID).Str("status", string(status)).Msg("review moderated")
	return rv, nil
}

/********** cafés **********/

func (s *CommandService) CreateCafe(ctx context.Context, in CafeInput) (domain.Cafe, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if err := validateStruct(in); err != nil {
		return domain.Cafe{}, err
	}
	now := s.now()
	c := in.toCafe()
	c.ID = uuid.NewString()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := s.repo.UpsertCafe(ctx, c); err != nil {
		return domain.Cafe{}, err
	}
	log.Info().Str("cafe_id", c.ID).Msg("cafe created")
	return c, nil
}

func (s *CommandService) UpdateCafe(ctx context.Context, id string, p CafePatch) (domain.Cafe, error) {
	cur, err := s.repo.GetCafe(ctx, id)
	if err != nil {
		return domain.Cafe{}, err
	}
	in := inputFromCafe(cur)
	p.applyTo(&in)
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	if err := validateStruct(in); err != nil {
		return domain.Cafe{}, err
	}

	c := in.toCafe()
	c.ID = cur.ID
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = s.now()
	if err := s.repo.UpsertCafe(ctx, c); err != nil {
		return domain.Cafe{}, err
	}
	s.invalidateCafe(ctx, id)
	return c, nil
}

func (s *CommandService) DeleteCafe(ctx context.Context, id string) error {
	if err := s.repo.DeleteCafe(ctx, id); err != nil {
		return err
	}
	s.invalidateCafe(ctx, id)
	log.Info().Str("cafe_id", id).Msg("cafe deleted")
	return nil
}

func (in CafeInput) toCafe() domain.Cafe {
	hours := domain.ClosedWeek()
	if in.Hours != nil {
		hours = *in.Hours
	}
	return domain.Cafe{
		Name:          in.Name,
		Description:   in.Description,
		Address:       in.Address,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		Phone:         in.Phone,
		Website:       in.Website,
		Rating:        in.Rating,
		ReviewCount:   in.ReviewCount,
		PriceLevel:    in.PriceLevel,
		Hours:         hours,
		Wifi:          in.Wifi,
		PowerOutlets:  in.PowerOutlets,
		NoiseLevel:    in.NoiseLevel,
		StudyFriendly: in.StudyFriendly,
		Amenities:     nonNil(in.Amenities),
		Tags:          nonNil(in.Tags),
		Images:        nonNil(in.Images),
	}
}

func inputFromCafe(c domain.Cafe) CafeInput {
	hours := c.Hours
	return CafeInput{
		Name:          c.Name,
		Description:   c.Description,
		Address:       c.Address,
		Latitude:      c.Latitude,
		Longitude:     c.Longitude,
		Phone:         c.Phone,
		Website:       c.Website,
		Rating:        c.Rating,
		ReviewCount:   c.ReviewCount,
		PriceLevel:    c.PriceLevel,
		Hours:         &hours,
		Wifi:          c.Wifi,
		PowerOutlets:  c.PowerOutlets,
		NoiseLevel:    c.NoiseLevel,
		StudyFriendly: c.StudyFriendly,
		Amenities:     c.Amenities,
		Tags:          c.Tags,
		Images:        c.Images,
	}
}

func (p CafePatch) applyTo(in *CafeInput) {
	set(&in.Name, p.Name)
	set(&in.Description, p.Description)
	set(&in.Address, p.Address)
	set(&in.Latitude, p.Latitude)
	set(&in.Longitude, p.Longitude)
	set(&in.Rating, p.Rating)
	set(&in.ReviewCount, p.ReviewCount)
	set(&in.PriceLevel, p.PriceLevel)
	set(&in.Wifi, p.Wifi)
	set(&in.PowerOutlets, p.PowerOutlets)
	set(&in.NoiseLevel, p.NoiseLevel)
	set(&in.StudyFriendly, p.StudyFriendly)
	if p.Phone != nil {
		in.Phone = p.Phone
	}
	if p.Website != nil {
		in.Website = p.Website
	}
	if p.Hours != nil {
		in.Hours = p.Hours
	}
	if p.Amenities != nil {
		in.Amenities = p.Amenities
	}
	if p.Tags != nil {
		in.Tags = p.Tags
	}
	if p.Images != nil {
		in.Images = p.Images
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

/********** validation & cache **********/

// validateStruct wraps validator failures in domain.ErrValidation, naming
// each offending field by its JSON name.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", jsonName(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func (s *CommandService) invalidateCafe(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, cafeKey(id)); err != nil {
		log.Warn().Err(err).Str("cafe_id", id).Msg("cache invalidation failed")
	}
	s.invalidateReviews(ctx, id)
}

func (s *CommandService) invalidateReviews(ctx context.Context, cafeID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DelPrefix(ctx, reviewsPrefix(cafeID)); err != nil {
		log.Warn().Err(err).Str("cafe_id", cafeID).Msg("cache invalidation failed")
	}
}
