package mysql

const upsertStateSQL = `
INSERT INTO states (id, created_at, updated_at, name)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  updated_at = VALUES(updated_at)
`

const upsertCitySQL = `
INSERT INTO cities (id, created_at, updated_at, state_id, name)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  state_id   = VALUES(state_id),
  name       = VALUES(name),
  updated_at = VALUES(updated_at)
`

const upsertAmenitySQL = `
INSERT INTO amenities (id, created_at, updated_at, name)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  updated_at = VALUES(updated_at)
`

// An empty incoming password keeps the stored one (mirrored users carry none).
const upsertUserSQL = `
INSERT INTO users (id, created_at, updated_at, email, password, first_name, last_name)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  email      = VALUES(email),
  password   = IF(VALUES(password) = '', users.password, VALUES(password)),
  first_name = VALUES(first_name),
  last_name  = VALUES(last_name),
  updated_at = VALUES(updated_at)
`

const upsertPlaceSQL = `
INSERT INTO places
  (id, created_at, updated_at, city_id, user_id, name, description,
   number_rooms, number_bathrooms, max_guest, price_by_night, latitude, longitude)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  city_id          = VALUES(city_id),
  user_id          = VALUES(user_id),
  name             = VALUES(name),
  description      = VALUES(description),
  number_rooms     = VALUES(number_rooms),
  number_bathrooms = VALUES(number_bathrooms),
  max_guest        = VALUES(max_guest),
  price_by_night   = VALUES(price_by_night),
  latitude         = VALUES(latitude),
  longitude        = VALUES(longitude),
  updated_at       = VALUES(updated_at)
`

const linkAmenitySQL = `INSERT IGNORE INTO place_amenity (place_id, amenity_id) VALUES (?, ?)`

const unlinkAmenitySQL = `DELETE FROM place_amenity WHERE place_id = ? AND amenity_id = ?`

const deletePlaceSQL = `DELETE FROM places WHERE id = ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const stateColumns = `s.id, s.created_at, s.updated_at, s.name`

const cityColumns = `c.id, c.created_at, c.updated_at, c.state_id, c.name`

const amenityColumns = `a.id, a.created_at, a.updated_at, a.name`

const userColumns = `u.id, u.created_at, u.updated_at, u.email, u.password, u.first_name, u.last_name`

const placeColumns = `p.id, p.created_at, p.updated_at, p.city_id, p.user_id, p.name, p.description,
  p.number_rooms, p.number_bathrooms, p.max_guest, p.price_by_night, p.latitude, p.longitude`

// Every list is ordered the same way so search output is stable across engines.
const (
	getStateSQL    = `SELECT ` + stateColumns + ` FROM states s WHERE s.id = ?`
	listStatesSQL  = `SELECT ` + stateColumns + ` FROM states s ORDER BY s.created_at, s.id`
	getCitySQL     = `SELECT ` + cityColumns + ` FROM cities c WHERE c.id = ?`
	citiesOfSQL    = `SELECT ` + cityColumns + ` FROM cities c WHERE c.state_id = ? ORDER BY c.created_at, c.id`
	getAmenitySQL  = `SELECT ` + amenityColumns + ` FROM amenities a WHERE a.id = ?`
	listAmenitySQL = `SELECT ` + amenityColumns + ` FROM amenities a ORDER BY a.created_at, a.id`
	amenitiesOfSQL = `SELECT ` + amenityColumns + ` FROM amenities a
  JOIN place_amenity pa ON pa.amenity_id = a.id
  WHERE pa.place_id = ? ORDER BY a.created_at, a.id`
	getUserSQL   = `SELECT ` + userColumns + ` FROM users u WHERE u.id = ?`
	getPlaceSQL  = `SELECT ` + placeColumns + ` FROM places p WHERE p.id = ?`
	placesOfSQL  = `SELECT ` + placeColumns + ` FROM places p WHERE p.city_id = ? ORDER BY p.created_at, p.id`
	allPlacesSQL = `SELECT ` + placeColumns + ` FROM places p ORDER BY p.created_at, p.id`

	allLinksSQL      = `SELECT place_id, amenity_id FROM place_amenity ORDER BY place_id, amenity_id`
	linksOfPrefixSQL = `SELECT place_id, amenity_id FROM place_amenity WHERE place_id IN (`
)

var countSQL = map[string]string{
	"State":   `SELECT COUNT(*) FROM states`,
	"City":    `SELECT COUNT(*) FROM cities`,
	"Place":   `SELECT COUNT(*) FROM places`,
	"Amenity": `SELECT COUNT(*) FROM amenities`,
	"User":    `SELECT COUNT(*) FROM users`,
}
