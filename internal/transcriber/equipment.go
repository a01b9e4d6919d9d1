package transcriber

import (
	"strings"

	"github.com/repslog/server/internal/catalog"
)

// equipmentAliases maps the free-form labels the vision service tends
// to return onto the catalog's fixed equipment set.
var equipmentAliases = map[string]string{
	"barbell":         catalog.EquipmentBarbell,
	"olympic barbell": catalog.EquipmentBarbell,
	"ez bar":          catalog.EquipmentBarbell,
	"ez-bar":          catalog.EquipmentBarbell,
	"weight plate":    catalog.EquipmentBarbell,

	"dumbbell":  catalog.EquipmentDumbbell,
	"dumbbells": catalog.EquipmentDumbbell,
	"dumbell":   catalog.EquipmentDumbbell,

	"kettlebell":  catalog.EquipmentKettlebell,
	"kettlebells": catalog.EquipmentKettlebell,

	"machine":          catalog.EquipmentMachine,
	"smith machine":    catalog.EquipmentMachine,
	"leg press":        catalog.EquipmentMachine,
	"lat pulldown":     catalog.EquipmentMachine,
	"exercise machine": catalog.EquipmentMachine,

	"cable":           catalog.EquipmentCable,
	"cables":          catalog.EquipmentCable,
	"cable crossover": catalog.EquipmentCable,
	"pulley":          catalog.EquipmentCable,

	"pull up bar":   catalog.EquipmentBodyweight,
	"pull-up bar":   catalog.EquipmentBodyweight,
	"dip station":   catalog.EquipmentBodyweight,
	"gymnast rings": catalog.EquipmentBodyweight,

	"resistance band": catalog.EquipmentBand,
	"band":            catalog.EquipmentBand,
	"bands":           catalog.EquipmentBand,
}

// NormalizeEquipment maps raw vision labels to the equipment set,
// dropping labels that match nothing. The result keeps the label
// order and holds no duplicates.
func NormalizeEquipment(labels []string) []string {
	var equipment []string
	seen := make(map[string]bool)
	for _, label := range labels {
		normalized, ok := equipmentAliases[strings.ToLower(strings.TrimSpace(label))]
		if !ok {
			continue
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		equipment = append(equipment, normalized)
	}
	return equipment
}
