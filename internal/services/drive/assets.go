package drive

import (
	"strings"
	"time"

	"google.golang.org/api/drive/v3"

	"cratepress/internal/catalog"
)

var (
	frontMarkers = []string{"front", "frente", "capa"}
	backMarkers  = []string{"back", "verso", "contracapa"}
)

func assetFromFile(file *drive.File) catalog.RawAsset {
	capturedAt, err := time.Parse(time.RFC3339, file.ModifiedTime)
	if err != nil {
		capturedAt = time.Time{}
	}
	return catalog.RawAsset{
		ID:         file.Id,
		Name:       file.Name,
		Role:       inferRole(file.Name),
		CapturedAt: capturedAt.UTC(),
	}
}

// inferRole guesses which side of the sleeve a photo shows from name
// markers. Back markers win when both appear, since names like
// "capa-verso.jpg" describe the back cover.
func inferRole(name string) catalog.Role {
	lowered := strings.ToLower(name)
	for _, marker := range backMarkers {
		if strings.Contains(lowered, marker) {
			return catalog.RoleBack
		}
	}
	for _, marker := range frontMarkers {
		if strings.Contains(lowered, marker) {
			return catalog.RoleFront
		}
	}
	return catalog.RoleUnknown
}
