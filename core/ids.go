package core

import (
	"fmt"

	"github.com/alvinmin/auditradar/schema"
	"github.com/google/uuid"
)

// idNamespace scopes every entity ID so the same inputs always reseed to the same IDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/alvinmin/auditradar"))

func newID(key string) string {
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// UnitID returns the stable ID of a unit.
func UnitID(name string) string {
	return newID("unit:" + schema.NormalizeKey(name))
}

// ScoreID returns the stable ID of a unit's dimension score.
func ScoreID(name string, d schema.Dimension) string {
	return newID("score:" + schema.NormalizeKey(name) + ":" + string(d))
}

// HeatmapID returns the stable ID of a unit's heatmap cell.
func HeatmapID(name string, d schema.Dimension) string {
	return newID("heatmap:" + schema.NormalizeKey(name) + ":" + string(d))
}

// AlertID returns the stable ID of a unit's alert.
func AlertID(name string) string {
	return newID("alert:" + schema.NormalizeKey(name))
}

// NewsID returns the stable ID of a news item by feed position and title.
func NewsID(index int, title string) string {
	return newID(fmt.Sprintf("news:%d:%s", index, title))
}
