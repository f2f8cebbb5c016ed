package classify

import (
	"strings"

	"github.com/nao1215/psvident/internal/model"
)

// FatMACPrefix is the vendor prefix found on the Wi-Fi chip of PCH-1000
// units. The Slim shares the model id but ships with a different chip.
const FatMACPrefix = "D4:4B:5E"

// ClassifyModel maps a kernel model id to a hardware model.
// macPrefix is the formatted MAC address (or any prefix of it); it only
// matters for ModelIDVita, where it separates the Fat from the Slim.
// Unmapped ids return an Unknown model carrying the id.
func ClassifyModel(modelID int, macPrefix string) model.HardwareModel {
	switch modelID {
	case model.ModelIDVita:
		if strings.Contains(strings.ToUpper(macPrefix), FatMACPrefix) {
			return model.HardwareModel{Kind: model.ModelVitaFat, ID: modelID}
		}
		return model.HardwareModel{Kind: model.ModelVitaSlim, ID: modelID}
	case model.ModelIDPSTV:
		return model.HardwareModel{Kind: model.ModelPSTV, ID: modelID}
	default:
		return model.UnknownModel(modelID)
	}
}
