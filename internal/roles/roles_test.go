package roles

import "testing"

func TestTierOf(t *testing.T) {
	tests := []struct {
		name         string
		roles        []string
		isAdmin      bool
		isSuperAdmin bool
	}{
		{
			name:         "nil role set",
			roles:        nil,
			isAdmin:      false,
			isSuperAdmin: false,
		},
		{
			name:         "empty role set",
			roles:        []string{},
			isAdmin:      false,
			isSuperAdmin: false,
		},
		{
			name:         "plain user",
			roles:        []string{"user"},
			isAdmin:      false,
			isSuperAdmin: false,
		},
		{
			name:         "admin",
			roles:        []string{"admin"},
			isAdmin:      true,
			isSuperAdmin: false,
		},
		{
			name:         "super admin",
			roles:        []string{"super_admin"},
			isAdmin:      true,
			isSuperAdmin: true,
		},
		{
			name:         "super admin alongside other roles",
			roles:        []string{"user", "admin", "super_admin"},
			isAdmin:      true,
			isSuperAdmin: true,
		},
		{
			name:         "unknown roles only",
			roles:        []string{"editor", "reviewer"},
			isAdmin:      false,
			isSuperAdmin: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := TierOf(tt.roles)

			if tier.IsAdmin() != tt.isAdmin {
				t.Errorf("IsAdmin() = %v, want %v", tier.IsAdmin(), tt.isAdmin)
			}
			if tier.IsSuperAdmin() != tt.isSuperAdmin {
				t.Errorf("IsSuperAdmin() = %v, want %v", tier.IsSuperAdmin(), tt.isSuperAdmin)
			}
		})
	}
}
