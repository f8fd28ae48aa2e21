package mqtt

import (
	"encoding/json"
	"testing"

	"github.com/berfenger/devicecap/internal/util"
	"github.com/berfenger/devicecap/pkg/device"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandParse(t *testing.T) {

	assert := assert.New(t)

	r := commandExtractor("loremTopic", "dev1")
	cmd, err := parseCommand(r, "loremTopic/device/dev1/set/PUT/increase-temperature", []byte(`{"increment":3}`))

	assert.NoError(err)
	assert.Equal("PUT", cmd.Method)
	assert.Equal("/increase-temperature", cmd.Path)
	assert.Equal(`{"increment":3}`, string(cmd.Payload))
}

func TestCommandParseNestedPath(t *testing.T) {

	assert := assert.New(t)

	r := commandExtractor("loremTopic", "dev1")
	cmd, err := parseCommand(r, "loremTopic/device/dev1/set/GET/a/b", nil)

	assert.NoError(err)
	assert.Equal("/a/b", cmd.Path)
}

func TestCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	r := commandExtractor("loremTopic", "dev1")
	for _, topic := range []string{
		"loremTopic/device/dev1/config",
		"loremTopic/device/dev2/set/PUT/on",
		"loremTopic/device/dev1/set/PATCH/on",
		"other/device/dev1/set/PUT/on",
	} {
		_, err := parseCommand(r, topic, nil)
		assert.Error(err, topic)
	}
}

func TestTopics(t *testing.T) {

	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	client := CreateMQTTClient(&cfg, OptsFromConfig(&cfg), nil, nil)

	assert.Equal("devicecap/device/test-device/availability", client.AvailabilityTopic())
	assert.Equal("devicecap/device/test-device/config", client.AnnouncementTopic())
	assert.Equal("devicecap/device/test-device/set/PUT/on", client.CommandTopic("put", "/on"))

	cmd, err := parseCommand(client.commandRegexp, client.CommandTopic("PUT", "/on"), nil)
	assert.NoError(err)
	assert.Equal("/on", cmd.Path)
}

func TestWillTopic(t *testing.T) {
	cfg := util.LoadTestConfig()
	opts := OptsFromConfig(&cfg)

	assert.True(t, opts.WillEnabled)
	assert.True(t, opts.WillRetained)
	assert.Equal(t, "devicecap/device/test-device/availability", opts.WillTopic)
	assert.Equal(t, MQTT_PAYLOAD_OFFLINE, string(opts.WillPayload))
}

func TestAnnouncement(t *testing.T) {
	require := require.New(t)

	cfg := util.LoadTestConfig()
	client := CreateMQTTClient(&cfg, OptsFromConfig(&cfg), nil, nil)

	f := device.Finalized{MainRoute: "/light", Kind: device.Light, Manifest: []byte(`{"kind":"Light","main_route":"/light","routes":[]}`)}
	a := NewAnnouncement(client, AnnouncementInfo{Id: "test-device", Name: "lamp", Port: 3000, Version: "v1", Finalized: f, IncludeManifest: true})

	b, err := json.Marshal(a)
	require.NoError(err)

	var decoded map[string]any
	require.NoError(json.Unmarshal(b, &decoded))
	require.Equal("Light", decoded["kind"])
	require.Equal("/light", decoded["main_route"])
	require.Equal("http", decoded["scheme"])
	require.Equal("/", decoded["path"])
	require.Equal("devicecap/device/test-device/availability", decoded["availability_topic"])
	require.Equal("Light", decoded["manifest"].(map[string]any)["kind"])

	a = NewAnnouncement(client, AnnouncementInfo{Finalized: f})
	require.Nil(a.Manifest)
}
