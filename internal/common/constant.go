package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "auth"

// RoleAdmin is stored in group_members.role for the group creator.
const RoleAdmin = "admin"
