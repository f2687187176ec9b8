package middleware

import (
	"testing"

	"github.com/jsurrea/PicScape/internal/models"
)

func TestGateAllows(t *testing.T) {
	member := &models.User{Username: "alice"}
	staff := &models.User{Username: "admin", IsStaff: true}
	complete := &models.Profile{Picture: "/media/users/pictures/alice.jpg", Biography: "hi"}
	pictureOnly := &models.Profile{Picture: "/media/users/pictures/alice.jpg"}
	biographyOnly := &models.Profile{Biography: "hi"}
	empty := &models.Profile{}

	tests := []struct {
		name    string
		user    *models.User
		profile *models.Profile
		path    string
		want    bool
	}{
		{"anonymous passes", nil, nil, "/feed", true},
		{"staff passes regardless", staff, empty, "/feed", true},
		{"complete profile passes", member, complete, "/feed", true},
		{"picture alone is incomplete", member, pictureOnly, "/feed", false},
		{"biography alone is incomplete", member, biographyOnly, "/feed", false},
		{"empty profile blocked", member, empty, "/feed", false},
		{"missing profile blocked", member, nil, "/feed", false},
		{"edit path always reachable", member, empty, "/me", true},
		{"logout always reachable", member, empty, "/logout", true},
		{"static assets exempt", member, empty, "/static/css/style.css", true},
		{"media assets exempt", member, empty, "/media/posts/photos/x.jpg", true},
		{"other paths blocked", member, empty, "/posts/1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gateAllows(tt.user, tt.profile, tt.path); got != tt.want {
				t.Errorf("gateAllows(%v) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestProfileComplete(t *testing.T) {
	p := &models.Profile{}
	if p.Complete() {
		t.Error("empty profile reported complete")
	}
	p.Picture = "/media/users/pictures/a.jpg"
	if p.Complete() {
		t.Error("picture without biography reported complete")
	}
	p.Biography = "hello"
	if !p.Complete() {
		t.Error("picture and biography together reported incomplete")
	}
}
