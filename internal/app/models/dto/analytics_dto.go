package dto

// AnalyticsRequest selects an analytics report and its export format
type AnalyticsRequest struct {
	Report string `form:"report" binding:"required,oneof=categories cohorts monthly top"`
	Format string `form:"format" binding:"omitempty,oneof=csv json pdf"`
	Tag    string `form:"tag"`
	Year   int    `form:"year"`
	Limit  int    `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
}

// CategoryStat aggregates engagement per project category
type CategoryStat struct {
	Category  string `json:"category"`
	Projects  int64  `json:"projects"`
	Views     int64  `json:"views"`
	Downloads int64  `json:"downloads"`
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
}

// CohortStat aggregates engagement per showcase year
type CohortStat struct {
	Year      int   `json:"year"`
	Projects  int64 `json:"projects"`
	Views     int64 `json:"views"`
	Downloads int64 `json:"downloads"`
	Likes     int64 `json:"likes"`
	Comments  int64 `json:"comments"`
}

// MonthlyStat aggregates engagement per calendar month
type MonthlyStat struct {
	Month     string `json:"month"` // YYYY-MM
	Views     int64  `json:"views"`
	Downloads int64  `json:"downloads"`
	Likes     int64  `json:"likes"`
	Comments  int64  `json:"comments"`
}

// TopProjectStat ranks a project in the top-N report
type TopProjectStat struct {
	Rank      int    `json:"rank"`
	ProjectID int64  `json:"projectId"`
	Title     string `json:"title"`
	Owner     string `json:"owner"`
	Category  string `json:"category"`
	Views     int64  `json:"views"`
	Likes     int64  `json:"likes"`
}
