package model

import "time"

// Role names form a closed set. They are stored verbatim in the
// users.role column and referenced by route-level access checks;
// adding a new role means adding a constant here and granting it on
// the relevant routes.
const (
    RoleStudent    = "student"
    RoleTrainer    = "trainer"
    RoleAdmin      = "admin"
    RoleSuperAdmin = "super_admin"
)

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. PasswordChangedAt is nullable: accounts that never
// changed their password have no value, and tokens issued to them
// are never treated as stale.
//
// Fields:
//  ID                – primary key identifier of the user.
//  Email             – unique email address.
//  PasswordHash      – bcrypt hashed password.
//  Role              – role name (student, trainer, admin, super_admin).
//  IsActive          – whether the account may authenticate.
//  PasswordChangedAt – when the password was last changed (null if never).
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last update.
type User struct {
    ID                uint64     // users.id
    Email             string     // users.email
    PasswordHash      string     // users.password_hash
    Role              string     // users.role
    IsActive          bool       // users.is_active
    PasswordChangedAt *time.Time // users.password_changed_at (nullable)
    CreatedAt         time.Time  // users.created_at
    UpdatedAt         time.Time  // users.updated_at
}

// IsAdmin reports whether the user holds an administrative role.
// Administrative roles bypass resource ownership checks.
func (u *User) IsAdmin() bool {
    return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// ResourceID implements middleware.Resource so that a user's own
// profile can be guarded by the ownership middleware: the profile is
// owned by the caller whose id equals the record id.
func (u *User) ResourceID() uint64 { return u.ID }

// ResourceType names the entity in security logs.
func (u *User) ResourceType() string { return "user" }

// OwnerIDs returns no additional owner fields; only the id match grants
// access to a profile.
func (u *User) OwnerIDs() []uint64 { return nil }
