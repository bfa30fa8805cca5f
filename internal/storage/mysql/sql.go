package mysql

const cafeColumns = `id, name, description, address, lat, lng, phone, website, rating, review_count,
  price_level, hours, wifi, power_outlets, noise_level, study_friendly, amenities, tags, images,
  created_at, updated_at`

const upsertCafeSQL = `
INSERT INTO cafes
  (` + cafeColumns + `)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name           = VALUES(name),
  description    = VALUES(description),
  address        = VALUES(address),
  lat            = VALUES(lat),
  lng            = VALUES(lng),
  phone          = VALUES(phone),
  website        = VALUES(website),
  rating         = VALUES(rating),
  review_count   = VALUES(review_count),
  price_level    = VALUES(price_level),
  hours          = VALUES(hours),
  wifi           = VALUES(wifi),
  power_outlets  = VALUES(power_outlets),
  noise_level    = VALUES(noise_level),
  study_friendly = VALUES(study_friendly),
  amenities      = VALUES(amenities),
  tags           = VALUES(tags),
  images         = VALUES(images),
  updated_at     = VALUES(updated_at)
`

// Row lock for the read-modify-write of review aggregates.
const lockCafeSQL = getCafeSQL + ` FOR UPDATE`

const updateRatingSQL = `UPDATE cafes SET rating = ?, review_count = ?, updated_at = ? WHERE id = ?`

const deleteCafeSQL = `DELETE FROM cafes WHERE id = ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Insertion order; ranking happens in the search package.
const listCafesSQL = `SELECT ` + cafeColumns + ` FROM cafes ORDER BY created_at, id`

const getCafeSQL = `SELECT ` + cafeColumns + ` FROM cafes WHERE id = ?`

// Note: `comment` is quoted everywhere to stay clear of reserved words.
const reviewColumns = "id, cafe_id, user_id, user_name, user_avatar, rating, study_rating, wifi_rating, noise_rating, `comment`, helpful, status, created_at"

const insertReviewSQL = "INSERT INTO reviews (" + reviewColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

const getReviewSQL = "SELECT " + reviewColumns + " FROM reviews WHERE id = ?"

const listReviewsSQL = "SELECT " + reviewColumns + " FROM reviews WHERE cafe_id = ? ORDER BY seq"

const listAllReviewsSQL = "SELECT " + reviewColumns + " FROM reviews ORDER BY seq"

const incrementHelpfulSQL = "UPDATE reviews SET helpful = helpful + 1 WHERE id = ?"

const setReviewStatusSQL = "UPDATE reviews SET status = ? WHERE id = ?"
