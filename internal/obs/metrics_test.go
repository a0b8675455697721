package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/healthz", "/healthz"},
		{"/api/v1/auth/login", "/api/v1/auth/login"},
		{"/api/v1/auth/users", "/api/v1/auth/users"},
		{"/api/v1/auth/users/1b3c", "/api/v1/auth/users/:id"},
		{"/api/v1/auth/users/1b3c/lock", "/api/v1/auth/users/:id/lock"},
		{"/api/v1/feedback/01HYX/respond", "/api/v1/feedback/:id/respond"},
		{"/api/v1/audit-logs?page=2", "/api/v1/audit-logs"},
		{"", "/"},
	}
	for _, tc := range cases {
		if got := CanonicalPath(tc.in); got != tc.want {
			t.Fatalf("CanonicalPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
