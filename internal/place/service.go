package place

import (
	"context"

	"github.com/TomasGoldb/juntifyBack/internal/db"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Upsert refreshes the cached place row; repeated saves of the same id
// overwrite the details with the latest snapshot.
func (s *Service) Upsert(ctx context.Context, input Place) (Place, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO places (id, name, address, lat, lng, rating, photo_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE
		SET name=EXCLUDED.name, address=EXCLUDED.address, lat=EXCLUDED.lat,
		    lng=EXCLUDED.lng, rating=EXCLUDED.rating, photo_url=EXCLUDED.photo_url
	`, input.ID, input.Name, input.Address, input.Lat, input.Lng, input.Rating, input.PhotoURL)
	if err != nil {
		return Place{}, err
	}
	return input, nil
}

func (s *Service) AddFavorite(ctx context.Context, profileID, placeID string) (Favorite, error) {
	fav := Favorite{ProfileID: profileID, PlaceID: placeID}
	row := s.db.QueryRow(ctx, `
		INSERT INTO favorite_places (profile_id, place_id)
		VALUES ($1,$2)
		ON CONFLICT (profile_id, place_id) DO UPDATE SET place_id=EXCLUDED.place_id
		RETURNING created_at
	`, profileID, placeID)
	if err := row.Scan(&fav.CreatedAt); err != nil {
		return Favorite{}, err
	}
	return fav, nil
}

func (s *Service) RemoveFavorite(ctx context.Context, profileID, placeID string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM favorite_places WHERE profile_id=$1 AND place_id=$2
	`, profileID, placeID)
	return err
}

func (s *Service) ListFavorites(ctx context.Context, profileID string) ([]Favorite, error) {
	rows, err := s.db.Query(ctx, `
		SELECT f.profile_id, f.place_id, f.created_at, p.id, p.name, p.address, p.lat, p.lng, p.rating, p.photo_url
		FROM favorite_places f
		JOIN places p ON p.id = f.place_id
		WHERE f.profile_id=$1
		ORDER BY f.created_at DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Favorite
	for rows.Next() {
		var fav Favorite
		var pl Place
		if err := rows.Scan(&fav.ProfileID, &fav.PlaceID, &fav.CreatedAt,
			&pl.ID, &pl.Name, &pl.Address, &pl.Lat, &pl.Lng, &pl.Rating, &pl.PhotoURL); err != nil {
			return nil, err
		}
		fav.Place = &pl
		out = append(out, fav)
	}
	return out, rows.Err()
}
