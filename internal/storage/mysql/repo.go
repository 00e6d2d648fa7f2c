package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hbnb_api/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- write paths ----

func (r *Repo) UpsertState(ctx context.Context, s domain.State) error {
	_, err := r.db.ExecContext(ctx, upsertStateSQL, s.ID, s.CreatedAt, s.UpdatedAt, s.Name)
	return err
}

func (r *Repo) UpsertCity(ctx context.Context, c domain.City) error {
	_, err := r.db.ExecContext(ctx, upsertCitySQL, c.ID, c.CreatedAt, c.UpdatedAt, c.StateID, c.Name)
	return err
}

func (r *Repo) UpsertAmenity(ctx context.Context, a domain.Amenity) error {
	_, err := r.db.ExecContext(ctx, upsertAmenitySQL, a.ID, a.CreatedAt, a.UpdatedAt, a.Name)
	return err
}

func (r *Repo) UpsertUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, upsertUserSQL,
		u.ID, u.CreatedAt, u.UpdatedAt,
		u.Email,
		u.Password, // '' keeps the stored password on update
		valStr(u.FirstName),
		valStr(u.LastName),
	)
	return err
}

// UpsertPlace writes the scalar columns and adds any links in p.AmenityIDs;
// existing links are never removed here.
func (r *Repo) UpsertPlace(ctx context.Context, p domain.Place) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.ExecContext(ctx, upsertPlaceSQL,
		p.ID, p.CreatedAt, p.UpdatedAt,
		p.CityID,
		p.UserID,
		p.Name,
		valStr(p.Description),
		p.NumberRooms,
		p.NumberBathrooms,
		p.MaxGuest,
		p.PriceByNight,
		valF64(p.Latitude),
		valF64(p.Longitude),
	); err != nil {
		return err
	}
	for _, aid := range p.AmenityIDs {
		if _, err := tx.ExecContext(ctx, linkAmenitySQL, p.ID, aid); err != nil {
			return fmt.Errorf("link amenity %s: %w", aid, err)
		}
	}
	return tx.Commit()
}

func (r *Repo) DeletePlace(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deletePlaceSQL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) LinkAmenity(ctx context.Context, placeID, amenityID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, linkAmenitySQL, placeID, amenityID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *Repo) UnlinkAmenity(ctx context.Context, placeID, amenityID string) error {
	res, err := r.db.ExecContext(ctx, unlinkAmenitySQL, placeID, amenityID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---- read paths ----

func (r *Repo) GetState(ctx context.Context, id string) (domain.State, error) {
	s, err := scanState(r.db.QueryRowContext(ctx, getStateSQL, id))
	return s, notFound(err)
}

func (r *Repo) ListStates(ctx context.Context) ([]domain.State, error) {
	rows, err := r.db.QueryContext(ctx, listStatesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.State
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) GetCity(ctx context.Context, id string) (domain.City, error) {
	c, err := scanCity(r.db.QueryRowContext(ctx, getCitySQL, id))
	return c, notFound(err)
}

func (r *Repo) CitiesOf(ctx context.Context, stateID string) ([]domain.City, error) {
	rows, err := r.db.QueryContext(ctx, citiesOfSQL, stateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.City
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetAmenity(ctx context.Context, id string) (domain.Amenity, error) {
	a, err := scanAmenity(r.db.QueryRowContext(ctx, getAmenitySQL, id))
	return a, notFound(err)
}

func (r *Repo) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	return r.queryAmenities(ctx, listAmenitySQL)
}

func (r *Repo) AmenitiesOf(ctx context.Context, placeID string) ([]domain.Amenity, error) {
	if _, err := r.GetPlace(ctx, placeID); err != nil {
		return nil, err
	}
	return r.queryAmenities(ctx, amenitiesOfSQL, placeID)
}

func (r *Repo) queryAmenities(ctx context.Context, q string, args ...any) ([]domain.Amenity, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Amenity
	for rows.Next() {
		a, err := scanAmenity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) GetUser(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, getUserSQL, id)
	var u domain.User
	var first, last sql.NullString
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Email, &u.Password, &first, &last); err != nil {
		return domain.User{}, notFound(err)
	}
	u.FirstName, u.LastName = first.String, last.String
	return u, nil
}

func (r *Repo) GetPlace(ctx context.Context, id string) (domain.Place, error) {
	p, err := scanPlace(r.db.QueryRowContext(ctx, getPlaceSQL, id))
	if err != nil {
		return domain.Place{}, notFound(err)
	}
	ps := []domain.Place{p}
	if err := r.attachAmenities(ctx, ps, false); err != nil {
		return domain.Place{}, err
	}
	return ps[0], nil
}

func (r *Repo) PlacesOf(ctx context.Context, cityID string) ([]domain.Place, error) {
	ps, err := r.queryPlaces(ctx, placesOfSQL, cityID)
	if err != nil {
		return nil, err
	}
	return ps, r.attachAmenities(ctx, ps, false)
}

func (r *Repo) AllPlaces(ctx context.Context) ([]domain.Place, error) {
	ps, err := r.queryPlaces(ctx, allPlacesSQL)
	if err != nil {
		return nil, err
	}
	return ps, r.attachAmenities(ctx, ps, true)
}

func (r *Repo) queryPlaces(ctx context.Context, q string, args ...any) ([]domain.Place, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// attachAmenities fills AmenityIDs in one query: the whole link table when
// every place is loaded, an IN list otherwise.
func (r *Repo) attachAmenities(ctx context.Context, ps []domain.Place, all bool) error {
	if len(ps) == 0 {
		return nil
	}
	idx := make(map[string]int, len(ps))
	for i := range ps {
		idx[ps[i].ID] = i
	}

	q := allLinksSQL
	var args []any
	if !all {
		marks := make([]string, 0, len(ps))
		args = make([]any, 0, len(ps))
		for _, p := range ps {
			marks = append(marks, "?")
			args = append(args, p.ID)
		}
		q = linksOfPrefixSQL + strings.Join(marks, ",") + ") ORDER BY place_id, amenity_id"
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("load amenity links: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pid, aid string
		if err := rows.Scan(&pid, &aid); err != nil {
			return err
		}
		if i, ok := idx[pid]; ok {
			ps[i].AmenityIDs = append(ps[i].AmenityIDs, aid)
		}
	}
	return rows.Err()
}

func (r *Repo) Count(ctx context.Context, kind domain.Kind) (int, error) {
	q, ok := countSQL[string(kind)]
	if !ok {
		return 0, fmt.Errorf("count: unknown kind %q", kind)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ---- scanning ----

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func scanState(row scanner) (domain.State, error) {
	var s domain.State
	err := row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt, &s.Name)
	return s, err
}

func scanCity(row scanner) (domain.City, error) {
	var c domain.City
	err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.StateID, &c.Name)
	return c, err
}

func scanAmenity(row scanner) (domain.Amenity, error) {
	var a domain.Amenity
	err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.Name)
	return a, err
}

func scanPlace(row scanner) (domain.Place, error) {
	var p domain.Place
	var desc sql.NullString
	var lat, lon sql.NullFloat64
	if err := row.Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt,
		&p.CityID, &p.UserID,
		&p.Name, &desc,
		&p.NumberRooms, &p.NumberBathrooms, &p.MaxGuest, &p.PriceByNight,
		&lat, &lon,
	); err != nil {
		return domain.Place{}, err
	}
	p.Description = desc.String
	if lat.Valid {
		f := lat.Float64
		p.Latitude = &f
	}
	if lon.Valid {
		f := lon.Float64
		p.Longitude = &f
	}
	return p, nil
}
