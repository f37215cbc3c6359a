package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCalculateDistance(t *testing.T) {
	// Times Square to JFK.
	d := CalculateDistance(40.758, -73.9855, 40.6413, -73.7781)
	if d < 21 || d > 22.5 {
		t.Fatalf("distance = %.2f km", d)
	}
	if CalculateDistance(1, 1, 1, 1) != 0 {
		t.Fatal("same point should be zero")
	}
	if !IsWithinRadius(40.758, -73.9855, 40.7484, -73.9857, 2) {
		t.Fatal("empire state should be within 2km of times square")
	}
}

func TestEstimateETAMinutes(t *testing.T) {
	if got := EstimateETAMinutes(10, 40); got != 15 {
		t.Fatalf("eta = %d", got)
	}
	if got := EstimateETAMinutes(10, 0); got != 20 {
		t.Fatalf("default speed eta = %d", got)
	}
}

func TestInterpolate(t *testing.T) {
	lat, lng := Interpolate(0, 0, 10, 20, 0.5)
	if lat != 5 || lng != 10 {
		t.Fatalf("midpoint = %v,%v", lat, lng)
	}
	if lat, lng = Interpolate(0, 0, 10, 20, 2); lat != 10 || lng != 20 {
		t.Fatalf("clamped = %v,%v", lat, lng)
	}
	if !IsValidCoordinates(90, -180) || IsValidCoordinates(91, 0) {
		t.Fatal("coordinate bounds")
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Hour, "5 hours ago"},
		{3 * 24 * time.Hour, "3 days ago"},
		{65 * 24 * time.Hour, "2 months ago"},
	}
	for _, tt := range tests {
		if got := TimeAgo(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("TimeAgo(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(95 * time.Minute); got != "1h 35m" {
		t.Fatalf("got %q", got)
	}
	if got := FormatDuration(42 * time.Second); got != "42s" {
		t.Fatalf("got %q", got)
	}
	if got := FormatTime(time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC), "Not/AZone"); got != "Mar 1, 2026 at 12:30" {
		t.Fatalf("got %q", got)
	}
}

func TestAccessToken(t *testing.T) {
	userID := primitive.NewObjectID()
	token, err := GenerateAccessToken(userID, "driver", "dana@example.com", "secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID || claims.Mode != "driver" || claims.Subject != userID.Hex() {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := ValidateToken(token, "other-secret"); err == nil {
		t.Fatal("token accepted with the wrong secret")
	}

	expired, err := GenerateAccessToken(userID, "rider", "", "secret", -time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	// A non-positive ttl falls back to the default, so the token is valid.
	if _, err := ValidateToken(expired, "secret"); err != nil {
		t.Fatalf("default ttl token: %v", err)
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "correct horse") || CheckPassword(hash, "battery staple") {
		t.Fatal("password check mismatch")
	}
}

func TestThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	for x := 0; x < 400; x++ {
		src.Set(x, x%200, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	data, dims, err := Thumbnail(bytes.NewReader(buf.Bytes()), "me.PNG", 100)
	if err != nil {
		t.Fatalf("thumbnail: %v", err)
	}
	if dims.Width != 100 || dims.Height != 50 {
		t.Fatalf("dims = %+v", dims)
	}
	// JPEG SOI marker.
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Fatal("output is not a jpeg")
	}

	small, dims, err := Thumbnail(bytes.NewReader(buf.Bytes()), "me.png", 1000)
	if err != nil || dims.Width != 400 || len(small) == 0 {
		t.Fatalf("small image should pass through: %+v %v", dims, err)
	}

	if _, _, err := Thumbnail(strings.NewReader("not an image"), "me.jpg", 100); err == nil {
		t.Fatal("expected decode error")
	}
	if IsValidImageFormat("me.gif") || !IsValidImageFormat("ME.JPEG") {
		t.Fatal("format check")
	}
	if err := EncodeImage(src, "bmp", &buf, 80); err != ErrUnsupportedImage {
		t.Fatalf("bmp: %v", err)
	}
}
