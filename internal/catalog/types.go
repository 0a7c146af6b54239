package catalog

// CourseMeta mirrors the catalog API response for a single course. The
// enricher depends on these exact field names and nested shapes.
type CourseMeta struct {
	Title       string  `json:"title"`
	IsPaid      bool    `json:"is_paid"`
	AvgRating   float64 `json:"avg_rating"`
	NumReviews  int     `json:"num_reviews"`
	ContentInfo string  `json:"content_info"`

	Locale struct {
		Title string `json:"title"`
	} `json:"locale"`

	PrimaryCategory struct {
		Title string `json:"title"`
	} `json:"primary_category"`

	PrimarySubcategory struct {
		Title string `json:"title"`
	} `json:"primary_subcategory"`

	// Discount is absent for courses without an active campaign.
	Discount *struct {
		Price struct {
			Amount float64 `json:"amount"`
		} `json:"price"`
		Campaign struct {
			EndTime string `json:"end_time"`
		} `json:"campaign"`
	} `json:"discount"`

	VisibleInstructors []struct {
		Title string `json:"title"`
	} `json:"visible_instructors"`
}

// Record is one validated free-course offer. A record exists only when the
// catalog reports the course as normally paid but currently discounted to
// zero.
type Record struct {
	Title      string  `json:"title"`
	Link       string  `json:"link"`
	Rating     float64 `json:"rating"`
	NumRatings int     `json:"num_ratings"`
	Language   string  `json:"language"`
	Duration   string  `json:"duration"`
	Topic0     string  `json:"topic_0"`
	Topic1     string  `json:"topic_1"`
	Topic2     string  `json:"topic_2,omitempty"`

	// Expiring is the whole-hour distance to the coupon's end time.
	// Negative means the coupon lapsed between discovery and enrichment;
	// the record is kept so consumers can see it went stale.
	Expiring int `json:"expiring"`

	Instructors []string `json:"instructor"`
}
