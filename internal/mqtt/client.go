package mqtt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/berfenger/devicecap/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"
)

func OptsFromConfig(cfg *config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("devicecap_%s", cfg.Device.Id))
	if cfg.MQTT.Username != "" && cfg.MQTT.Password != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.WillEnabled = true
	opts.WillPayload = []byte(MQTT_PAYLOAD_OFFLINE)
	opts.WillRetained = true
	opts.WillTopic = availabilityTopic(cfg.MQTT.BaseTopic, cfg.Device.Id)
	opts.WillQos = 1

	return opts
}

func CreateMQTTClient(cfg *config.Config, opts *mqtt.ClientOptions, onConnectHandler func(client mqtt.Client),
	onConnectionLostHandler func(mqtt.Client, error)) *MQTTClient {
	if onConnectHandler != nil {
		opts.OnConnect = onConnectHandler
	}
	if onConnectionLostHandler != nil {
		opts.OnConnectionLost = onConnectionLostHandler
	}
	return &MQTTClient{
		client:        mqtt.NewClient(opts),
		baseTopic:     cfg.MQTT.BaseTopic,
		deviceId:      cfg.Device.Id,
		commandRegexp: commandExtractor(cfg.MQTT.BaseTopic, cfg.Device.Id),
	}
}

type MQTTClient struct {
	client        mqtt.Client
	baseTopic     string
	deviceId      string
	commandRegexp *regexp.Regexp
}

// ParsedMQTTCommand is an action invocation received over MQTT. Payload
// holds the JSON inputs.
type ParsedMQTTCommand struct {
	Method  string
	Path    string
	Payload []byte
}

func (c *MQTTClient) deviceTopic() string {
	return fmt.Sprintf("%s/device/%s", c.baseTopic, c.deviceId)
}

func (c *MQTTClient) AvailabilityTopic() string {
	return availabilityTopic(c.baseTopic, c.deviceId)
}

func (c *MQTTClient) AnnouncementTopic() string {
	return c.deviceTopic() + "/config"
}

func (c *MQTTClient) ResultTopic() string {
	return c.deviceTopic() + "/result"
}

func (c *MQTTClient) CommandTopic(method, path string) string {
	return fmt.Sprintf("%s/set/%s%s", c.deviceTopic(), strings.ToUpper(method), path)
}

func (c *MQTTClient) ParseMQTTCommand(msg mqtt.Message) (*ParsedMQTTCommand, error) {
	return parseCommand(c.commandRegexp, msg.Topic(), msg.Payload())
}

func parseCommand(r *regexp.Regexp, topic string, payload []byte) (*ParsedMQTTCommand, error) {
	matches := r.FindAllStringSubmatch(topic, 1)
	if len(matches) == 0 {
		return nil, errors.New("invalid command")
	}
	if len(matches[0]) != 3 {
		return nil, errors.New("invalid command topic")
	}
	return &ParsedMQTTCommand{
		Method:  matches[0][1],
		Path:    "/" + matches[0][2],
		Payload: payload,
	}, nil
}

func (c *MQTTClient) Publish(topic string, payload any, qos byte, retain bool, continuation func(error), timeout time.Duration) {
	token := c.client.Publish(topic, qos, retain, payload)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT publish timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) Subscribe(topic string, qos byte, handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	token := c.client.Subscribe(topic, qos, handler)
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT subscribe timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) SubscribeToCommandTopic(handler mqtt.MessageHandler, continuation func(error), timeout time.Duration) {
	c.Subscribe(c.deviceTopic()+"/set/#", 1, handler, continuation, timeout)
}

func (c *MQTTClient) Connect(continuation func(error), timeout time.Duration) {
	token := c.client.Connect()
	go func() {
		didTO := token.WaitTimeout(timeout)
		if !didTO {
			continuation(errors.New("MQTT connect timed out"))
		} else {
			continuation(token.Error())
		}
	}()
}

func (c *MQTTClient) IsConnected() bool {
	return c.client.IsConnected()
}

func (c *MQTTClient) Disconnect(timeout time.Duration) {
	c.client.Disconnect(uint(timeout.Milliseconds()))
}

func commandExtractor(baseTopic, deviceId string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf("^%s/device/%s/set/(GET|POST|PUT|DELETE)/([a-zA-Z0-9_/-]+)$",
		regexp.QuoteMeta(baseTopic), regexp.QuoteMeta(deviceId)))
}

func availabilityTopic(baseTopic, deviceId string) string {
	return fmt.Sprintf("%s/device/%s/availability", baseTopic, deviceId)
}
