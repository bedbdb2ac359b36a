package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "student", want: RoleStudent},
		{in: " Recruiter ", want: RoleRecruiter},
		{in: "ADMIN", want: RoleAdmin},
		{in: "guest", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_UnmarshalRejectsUnknown(t *testing.T) {
	var u User
	err := json.Unmarshal([]byte(`{"id":"1","role":"superuser"}`), &u)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSession_Validate(t *testing.T) {
	u := User{ID: "1", Email: "a@b.c", Role: RoleStudent}

	require.NoError(t, Anonymous().Validate())
	require.NoError(t, SignedIn(u).Validate())

	assert.Error(t, Session{IsAuthenticated: true}.Validate())
	assert.Error(t, Session{User: &u}.Validate())

	bad := u
	bad.Role = "root"
	assert.ErrorIs(t, Session{User: &bad, IsAuthenticated: true}.Validate(), ErrInvalidRole)
}

func TestSignedIn_CopiesUser(t *testing.T) {
	u := User{ID: "1", Role: RoleStudent, Skills: []string{"Go"}}
	s := SignedIn(u)

	u.Skills[0] = "Rust"
	u.Name = "changed"

	assert.Equal(t, []string{"Go"}, s.User.Skills)
	assert.Empty(t, s.User.Name)
	assert.Equal(t, RoleStudent, s.Role())
	assert.Equal(t, Role(""), Anonymous().Role())
}

func TestUser_Initials(t *testing.T) {
	assert.Equal(t, "JD", User{Name: "John Doe"}.Initials())
	assert.Equal(t, "SC", User{Name: "sarah chen lee"}.Initials())
	assert.Equal(t, "", User{}.Initials())
}
