package services

// Services defined in this package:
// - AuthService: registration, login, token refresh and logout
// - UserService: profiles plus admin account management
// - ProjectService: project CRUD, browsing and engagement counters
// - FileService: uploads, external embeds, covers and gallery ordering
// - LikeService: project and comment like toggles with live broadcast
// - CommentService: threaded comments, one reply level deep
// - AnalyticsService: aggregate reports and their CSV/JSON/PDF exports
