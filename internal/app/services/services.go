package services

// Services defined in this package:
// - DomainService: domain listing, detail pages and the delete flow
// - StudentService: per-domain student lists and student deletion
// - DatabaseService: backend table creation and health
// - AuthService: the signed-in profile and sign out
