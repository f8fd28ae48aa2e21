package mqtt

import (
	"encoding/json"

	"github.com/berfenger/devicecap/pkg/device"
)

// Announcement is the retained discovery message of a device. Controllers
// fetch the manifest from Scheme://host:Port + Path.
type Announcement struct {
	Id                string          `json:"id"`
	Name              string          `json:"name"`
	Kind              device.Kind     `json:"kind"`
	MainRoute         string          `json:"main_route"`
	Scheme            string          `json:"scheme"`
	Port              uint            `json:"port"`
	Path              string          `json:"path"`
	Version           string          `json:"sw_version,omitempty"`
	AvailabilityTopic string          `json:"availability_topic"`
	CommandTopic      string          `json:"command_topic"`
	Manifest          json.RawMessage `json:"manifest,omitempty"`
}

type AnnouncementInfo struct {
	Id        string
	Name      string
	Port      uint
	Version   string
	Finalized device.Finalized
	// IncludeManifest embeds the manifest bytes in the announcement.
	IncludeManifest bool
}

func NewAnnouncement(client *MQTTClient, info AnnouncementInfo) Announcement {
	a := Announcement{
		Id:                info.Id,
		Name:              info.Name,
		Kind:              info.Finalized.Kind,
		MainRoute:         info.Finalized.MainRoute,
		Scheme:            "http",
		Port:              info.Port,
		Path:              "/",
		Version:           info.Version,
		AvailabilityTopic: client.AvailabilityTopic(),
		CommandTopic:      client.deviceTopic() + "/set/#",
	}
	if info.IncludeManifest {
		a.Manifest = json.RawMessage(info.Finalized.Manifest)
	}
	return a
}
