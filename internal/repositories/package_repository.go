package repositories

import (
	"database/sql"
	"strings"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
)

type PackageRepository struct {
	DB *sql.DB
}

func (r PackageRepository) db() *sql.DB { return fallbackDB(r.DB) }

const packageColumns = `
	id, name, slug, COALESCE(description,''),
	destination_city, destination_country,
	duration_days, duration_nights,
	starting_price_cents, price_per_person_cents,
	COALESCE(highlights,''), COALESCE(inclusions,''), COALESCE(exclusions,''),
	COALESCE(itinerary,''),
	COALESCE(hotel_name,''), COALESCE(hotel_rating,0), COALESCE(room_type,''),
	is_active, COALESCE(available_from,''), COALESCE(available_until,''),
	COALESCE(max_capacity,0), min_booking,
	COALESCE(featured_image,''), COALESCE(gallery_images,''),
	COALESCE(meta_title,''), COALESCE(meta_description,''),
	view_count, booking_count,
	created_at, updated_at`

func scanPackage(row rowScanner) (models.Package, error) {
	var (
		p                      models.Package
		highlights, inclusions []byte
		exclusions, itinerary  []byte
		gallery                []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description,
		&p.DestinationCity, &p.DestinationCountry,
		&p.DurationDays, &p.DurationNights,
		&p.StartingPriceCents, &p.PricePerPersonCents,
		&highlights, &inclusions, &exclusions,
		&itinerary,
		&p.HotelName, &p.HotelRating, &p.RoomType,
		&p.IsActive, &p.AvailableFrom, &p.AvailableUntil,
		&p.MaxCapacity, &p.MinBooking,
		&p.FeaturedImage, &gallery,
		&p.MetaTitle, &p.MetaDescription,
		&p.ViewCount, &p.BookingCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return models.Package{}, err
	}
	if len(highlights) > 0 {
		p.Highlights = highlights
	}
	if len(inclusions) > 0 {
		p.Inclusions = inclusions
	}
	if len(exclusions) > 0 {
		p.Exclusions = exclusions
	}
	if len(itinerary) > 0 {
		p.Itinerary = itinerary
	}
	if len(gallery) > 0 {
		p.GalleryImages = gallery
	}
	return p, nil
}

func (r PackageRepository) Create(p models.Package) error {
	_, err := r.db().Exec(`
		INSERT INTO packages (
			id, name, slug, description,
			destination_city, destination_country,
			duration_days, duration_nights,
			starting_price_cents, price_per_person_cents,
			highlights, inclusions, exclusions, itinerary,
			hotel_name, hotel_rating, room_type,
			is_active, available_from, available_until,
			max_capacity, min_booking,
			featured_image, gallery_images,
			meta_title, meta_description,
			view_count, booking_count, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,0,0,NOW(),NOW())`,
		p.ID, p.Name, p.Slug, nullIfEmpty(p.Description),
		p.DestinationCity, p.DestinationCountry,
		p.DurationDays, p.DurationNights,
		p.StartingPriceCents, p.PricePerPersonCents,
		nullIfEmptyBytes(p.Highlights), nullIfEmptyBytes(p.Inclusions), nullIfEmptyBytes(p.Exclusions), nullIfEmptyBytes(p.Itinerary),
		nullIfEmpty(p.HotelName), p.HotelRating, nullIfEmpty(p.RoomType),
		p.IsActive, nullIfEmpty(p.AvailableFrom), nullIfEmpty(p.AvailableUntil),
		p.MaxCapacity, p.MinBooking,
		nullIfEmpty(p.FeaturedImage), nullIfEmptyBytes(p.GalleryImages),
		nullIfEmpty(p.MetaTitle), nullIfEmpty(p.MetaDescription),
	)
	return err
}

func (r PackageRepository) GetByID(id string) (models.Package, error) {
	row := r.db().QueryRow(`SELECT `+packageColumns+` FROM packages WHERE id=? LIMIT 1`, id)
	p, err := scanPackage(row)
	if err == sql.ErrNoRows {
		return models.Package{}, domain.NotFoundError{Resource: "package"}
	}
	return p, err
}

func (r PackageRepository) GetBySlug(slug string) (models.Package, error) {
	row := r.db().QueryRow(`SELECT `+packageColumns+` FROM packages WHERE slug=? LIMIT 1`, slug)
	p, err := scanPackage(row)
	if err == sql.ErrNoRows {
		return models.Package{}, domain.NotFoundError{Resource: "package"}
	}
	return p, err
}

func (r PackageRepository) SlugExists(slug string) (bool, error) {
	var n int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM packages WHERE slug=?`, slug).Scan(&n)
	return n > 0, err
}

// PackageSearch holds public catalog search parameters.
type PackageSearch struct {
	Query         string
	City          string
	Country       string
	MinPriceCents int64
	MaxPriceCents int64
	MinDays       int
	MaxDays       int
	Sort          string // price_asc, price_desc, duration, popular, newest
	IncludeHidden bool   // admin listings include inactive packages
}

func (s PackageSearch) clause() (string, []any) {
	where := []string{"1=1"}
	args := []any{}
	if !s.IncludeHidden {
		where = append(where, "is_active=1")
	}
	if q := strings.TrimSpace(s.Query); q != "" {
		where = append(where, "(name LIKE ? OR description LIKE ? OR destination_city LIKE ? OR destination_country LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like, like, like)
	}
	if s.City != "" {
		where = append(where, "destination_city LIKE ?")
		args = append(args, "%"+s.City+"%")
	}
	if s.Country != "" {
		where = append(where, "destination_country LIKE ?")
		args = append(args, "%"+s.Country+"%")
	}
	if s.MinPriceCents > 0 {
		where = append(where, "starting_price_cents >= ?")
		args = append(args, s.MinPriceCents)
	}
	if s.MaxPriceCents > 0 {
		where = append(where, "starting_price_cents <= ?")
		args = append(args, s.MaxPriceCents)
	}
	if s.MinDays > 0 {
		where = append(where, "duration_days >= ?")
		args = append(args, s.MinDays)
	}
	if s.MaxDays > 0 {
		where = append(where, "duration_days <= ?")
		args = append(args, s.MaxDays)
	}
	return strings.Join(where, " AND "), args
}

func (s PackageSearch) orderBy() string {
	switch s.Sort {
	case "price_asc":
		return "starting_price_cents ASC"
	case "price_desc":
		return "starting_price_cents DESC"
	case "duration":
		return "duration_days ASC"
	case "popular":
		return "booking_count DESC, view_count DESC"
	default:
		return "created_at DESC"
	}
}

func (r PackageRepository) Search(s PackageSearch, p *domain.Pagination) ([]models.Package, error) {
	p.Clamp()
	cond, args := s.clause()

	if err := r.db().QueryRow(`SELECT COUNT(*) FROM packages WHERE `+cond, args...).Scan(&p.Total); err != nil {
		return nil, err
	}

	args = append(args, p.PageSize, p.Offset())
	rows, err := r.db().Query(`SELECT `+packageColumns+` FROM packages WHERE `+cond+` ORDER BY `+s.orderBy()+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPackages(rows)
}

func (r PackageRepository) Featured(limit int) ([]models.Package, error) {
	rows, err := r.db().Query(`
		SELECT `+packageColumns+` FROM packages
		WHERE is_active=1 AND featured_image IS NOT NULL
		ORDER BY view_count DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPackages(rows)
}

func (r PackageRepository) Popular(limit int) ([]models.Package, error) {
	rows, err := r.db().Query(`
		SELECT `+packageColumns+` FROM packages
		WHERE is_active=1
		ORDER BY booking_count DESC, view_count DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPackages(rows)
}

// Similar returns active packages sharing the destination country.
func (r PackageRepository) Similar(pkg models.Package, limit int) ([]models.Package, error) {
	rows, err := r.db().Query(`
		SELECT `+packageColumns+` FROM packages
		WHERE is_active=1 AND id<>? AND destination_country=?
		ORDER BY booking_count DESC LIMIT ?`, pkg.ID, pkg.DestinationCountry, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPackages(rows)
}

func collectPackages(rows *sql.Rows) ([]models.Package, error) {
	var out []models.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Destination aggregates packages per destination for the landing page.
type Destination struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Count   int    `json:"package_count"`
}

func (r PackageRepository) Destinations() ([]Destination, error) {
	rows, err := r.db().Query(`
		SELECT destination_city, destination_country, COUNT(*)
		FROM packages WHERE is_active=1
		GROUP BY destination_city, destination_country
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Destination
	for rows.Next() {
		var d Destination
		if err := rows.Scan(&d.City, &d.Country, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r PackageRepository) PriceRange() (minCents, maxCents int64, err error) {
	err = r.db().QueryRow(`
		SELECT COALESCE(MIN(starting_price_cents),0), COALESCE(MAX(starting_price_cents),0)
		FROM packages WHERE is_active=1`).Scan(&minCents, &maxCents)
	return minCents, maxCents, err
}

// PackageUpdate is an admin PATCH; nil means untouched.
type PackageUpdate struct {
	Name                *string
	Description         *string
	DestinationCity     *string
	DestinationCountry  *string
	DurationDays        *int
	DurationNights      *int
	StartingPriceCents  *int64
	PricePerPersonCents *int64
	Highlights          []byte
	Inclusions          []byte
	Exclusions          []byte
	Itinerary           []byte
	HotelName           *string
	HotelRating         *int
	RoomType            *string
	IsActive            *bool
	AvailableFrom       *string
	AvailableUntil      *string
	MaxCapacity         *int
	MinBooking          *int
	FeaturedImage       *string
	GalleryImages       []byte
	MetaTitle           *string
	MetaDescription     *string
}

func (r PackageRepository) Patch(id string, u PackageUpdate) error {
	sets := []string{}
	args := []any{}
	addStr := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+"=?")
			args = append(args, nullIfEmpty(strings.TrimSpace(*v)))
		}
	}
	addInt := func(col string, v *int) {
		if v != nil {
			sets = append(sets, col+"=?")
			args = append(args, *v)
		}
	}
	addStr("name", u.Name)
	addStr("description", u.Description)
	addStr("destination_city", u.DestinationCity)
	addStr("destination_country", u.DestinationCountry)
	addInt("duration_days", u.DurationDays)
	addInt("duration_nights", u.DurationNights)
	if u.StartingPriceCents != nil {
		sets = append(sets, "starting_price_cents=?")
		args = append(args, *u.StartingPriceCents)
	}
	if u.PricePerPersonCents != nil {
		sets = append(sets, "price_per_person_cents=?")
		args = append(args, *u.PricePerPersonCents)
	}
	addJSON := func(col string, v []byte) {
		if v != nil {
			sets = append(sets, col+"=?")
			args = append(args, nullIfEmptyBytes(v))
		}
	}
	addJSON("highlights", u.Highlights)
	addJSON("inclusions", u.Inclusions)
	addJSON("exclusions", u.Exclusions)
	addJSON("itinerary", u.Itinerary)
	addStr("hotel_name", u.HotelName)
	addInt("hotel_rating", u.HotelRating)
	addStr("room_type", u.RoomType)
	if u.IsActive != nil {
		sets = append(sets, "is_active=?")
		args = append(args, *u.IsActive)
	}
	addStr("available_from", u.AvailableFrom)
	addStr("available_until", u.AvailableUntil)
	addInt("max_capacity", u.MaxCapacity)
	addInt("min_booking", u.MinBooking)
	addStr("featured_image", u.FeaturedImage)
	addJSON("gallery_images", u.GalleryImages)
	addStr("meta_title", u.MetaTitle)
	addStr("meta_description", u.MetaDescription)
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	_, err := r.db().Exec(`UPDATE packages SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	return err
}

func (r PackageRepository) Delete(id string) error {
	res, err := r.db().Exec(`DELETE FROM packages WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "package"}
	}
	return nil
}

func (r PackageRepository) Deactivate(id string) error {
	_, err := r.db().Exec(`UPDATE packages SET is_active=0, updated_at=NOW() WHERE id=?`, id)
	return err
}

func (r PackageRepository) HasBookings(id string) (bool, error) {
	var n int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM bookings WHERE package_id=?`, id).Scan(&n)
	return n > 0, err
}

func (r PackageRepository) IncrementViews(id string) error {
	_, err := r.db().Exec(`UPDATE packages SET view_count=view_count+1 WHERE id=?`, id)
	return err
}

func (r PackageRepository) IncrementBookings(id string) error {
	_, err := r.db().Exec(`UPDATE packages SET booking_count=booking_count+1 WHERE id=?`, id)
	return err
}

// PackageStats backs the admin packages dashboard.
type PackageStats struct {
	Total         int   `json:"total"`
	Active        int   `json:"active"`
	TotalViews    int   `json:"total_views"`
	TotalBookings int   `json:"total_bookings"`
	AvgPriceCents int64 `json:"avg_price_cents"`
}

func (r PackageRepository) Stats() (PackageStats, error) {
	var s PackageStats
	err := r.db().QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(is_active),0),
		       COALESCE(SUM(view_count),0), COALESCE(SUM(booking_count),0),
		       COALESCE(AVG(starting_price_cents),0)
		FROM packages`).Scan(&s.Total, &s.Active, &s.TotalViews, &s.TotalBookings, &s.AvgPriceCents)
	return s, err
}
