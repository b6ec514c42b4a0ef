package elevmetadata

import (
	"encoding/json"

	"github.com/adiga/ElevatorControllerSystem/internal/logger"

	"github.com/google/uuid"
	"github.com/xyproto/randomstring"
)

var Log = logger.GetLogger()

const IDENTIFIER_DEFAULT_LEN = 10

type ElevMetaData struct {
	SoftwareVersion string `json:"software_version"`
	Identifier      string `json:"identifier"`
	BootID          string `json:"boot_id"`
	BoardAddress    string `json:"board_address"`
}

// NewElevMetaData fills in a random identifier when none is configured and a
// fresh boot id for every start.
func NewElevMetaData(softwareVersion string, identifier string, boardAddress string) *ElevMetaData {
	if identifier == "" {
		identifier = randomstring.EnglishFrequencyString(IDENTIFIER_DEFAULT_LEN) //this should be random enough
		Log.Warn().Msgf("No controller identifier provided, generated random identifier \"%v\"", identifier)
	}

	return &ElevMetaData{
		SoftwareVersion: softwareVersion,
		Identifier:      identifier,
		BootID:          uuid.NewString(),
		BoardAddress:    boardAddress,
	}
}

func (elevMetaData *ElevMetaData) String() string {
	jsonData, err := json.Marshal(elevMetaData)

	if err != nil {
		Log.Error().Msg("Error Serialising ElevMetaData Object to JSON")
		return ""
	}
	return string(jsonData)
}
