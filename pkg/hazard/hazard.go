// Package hazard holds the closed catalog of effects an action may have on
// people, money or privacy, and a set type used to disclose them per route.
package hazard

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownHazard = errors.New("unknown hazard")

type Category uint8

const (
	Safety Category = iota
	Financial
	Privacy
)

func (c Category) String() string {
	switch c {
	case Safety:
		return "Safety"
	case Financial:
		return "Financial"
	case Privacy:
		return "Privacy"
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, cat := range []Category{Safety, Financial, Privacy} {
		if cat.String() == name {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("unknown hazard category %q", name)
}

// Hazard is identified by its numeric id; everything else comes from the
// catalog.
type Hazard uint16

const (
	AirPoisoning Hazard = iota
	Asphyxia
	AudioVideoDisplay
	AudioVideoRecordAndStore
	ElectricEnergyConsumption
	Explosion
	FireHazard
	GasConsumption
	LogEnergyConsumption
	LogUsageTime
	PaySubscriptionFee
	PowerOutage
	PowerSurge
	RecordIssuedCommands
	RecordUserPreferences
	SpendMoney
	SpoiledFood
	TakeDeviceScreenshots
	TakePictures
	UnauthorisedPhysicalAccess
	WaterConsumption
	WaterFlooding
)

type entry struct {
	name        string
	category    Category
	description string
}

var catalog = [...]entry{
	AirPoisoning:               {"AirPoisoning", Safety, "The execution may release toxic gases."},
	Asphyxia:                   {"Asphyxia", Safety, "The execution may cause oxygen deficiency by gaseous substances."},
	AudioVideoDisplay:          {"AudioVideoDisplay", Privacy, "The execution authorises the app to display a video with audio coming from the device."},
	AudioVideoRecordAndStore:   {"AudioVideoRecordAndStore", Privacy, "The execution authorises the app to record and save a video with audio on persistent storage."},
	ElectricEnergyConsumption:  {"ElectricEnergyConsumption", Financial, "The execution enables a device that consumes electricity."},
	Explosion:                  {"Explosion", Safety, "The execution may cause an explosion."},
	FireHazard:                 {"FireHazard", Safety, "The execution may cause fire."},
	GasConsumption:             {"GasConsumption", Financial, "The execution enables a device that consumes gas."},
	LogEnergyConsumption:       {"LogEnergyConsumption", Privacy, "The execution authorises the app to get and save information about the app's energy impact on the device the app runs on."},
	LogUsageTime:               {"LogUsageTime", Privacy, "The execution authorises the app to get and save information about the app's duration of use."},
	PaySubscriptionFee:         {"PaySubscriptionFee", Financial, "The execution authorises the app to use payment information and make a periodic payment."},
	PowerOutage:                {"PowerOutage", Safety, "The execution may cause an interruption in the supply of electricity."},
	PowerSurge:                 {"PowerSurge", Safety, "The execution may lead to exposure to high voltages."},
	RecordIssuedCommands:       {"RecordIssuedCommands", Privacy, "The execution authorises the app to get and save user inputs."},
	RecordUserPreferences:      {"RecordUserPreferences", Privacy, "The execution authorises the app to get and save information about the user's preferences."},
	SpendMoney:                 {"SpendMoney", Financial, "The execution authorises the app to use payment information and make a payment transaction."},
	SpoiledFood:                {"SpoiledFood", Safety, "The execution may lead to rotten food."},
	TakeDeviceScreenshots:      {"TakeDeviceScreenshots", Privacy, "The execution authorises the app to read the display output and take screenshots of it."},
	TakePictures:               {"TakePictures", Privacy, "The execution authorises the app to use a camera and take photos."},
	UnauthorisedPhysicalAccess: {"UnauthorisedPhysicalAccess", Safety, "The execution disables a protection mechanism and unauthorised individuals may physically enter home."},
	WaterConsumption:           {"WaterConsumption", Financial, "The execution enables a device that consumes water."},
	WaterFlooding:              {"WaterFlooding", Safety, "The execution allows water usage which may lead to flood."},
}

// All lists every catalog hazard ordered by id.
func All() []Hazard {
	all := make([]Hazard, len(catalog))
	for i := range catalog {
		all[i] = Hazard(i)
	}
	return all
}

// FromID looks up a catalog hazard.
func FromID(id uint16) (Hazard, error) {
	if int(id) >= len(catalog) {
		return 0, fmt.Errorf("%w: id %d", ErrUnknownHazard, id)
	}
	return Hazard(id), nil
}

// FromName looks up a catalog hazard by its name.
func FromName(name string) (Hazard, error) {
	for i := range catalog {
		if catalog[i].name == name {
			return Hazard(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownHazard, name)
}

func (h Hazard) Valid() bool {
	return int(h) < len(catalog)
}

func (h Hazard) ID() uint16 {
	return uint16(h)
}

func (h Hazard) Name() string {
	if !h.Valid() {
		return fmt.Sprintf("Hazard(%d)", uint16(h))
	}
	return catalog[h].name
}

func (h Hazard) String() string {
	return h.Name()
}

func (h Hazard) Category() Category {
	if !h.Valid() {
		return Safety
	}
	return catalog[h].category
}

func (h Hazard) Description() string {
	if !h.Valid() {
		return ""
	}
	return catalog[h].description
}

type hazardJSON struct {
	ID          uint16   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

func (h Hazard) MarshalJSON() ([]byte, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownHazard, uint16(h))
	}
	return json.Marshal(hazardJSON{
		ID:          h.ID(),
		Name:        h.Name(),
		Category:    h.Category(),
		Description: h.Description(),
	})
}

// UnmarshalJSON accepts the full hazard object and checks it against the
// catalog entry with the same id.
func (h *Hazard) UnmarshalJSON(data []byte) error {
	var raw hazardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	found, err := FromID(raw.ID)
	if err != nil {
		return err
	}
	if raw.Name != found.Name() {
		return fmt.Errorf("%w: id %d is %s, not %s", ErrUnknownHazard, raw.ID, found.Name(), raw.Name)
	}
	*h = found
	return nil
}
