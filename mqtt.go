package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"i4.energy/across/sa818gw/at"
	"i4.energy/across/sa818gw/radio"
)

// Command is the payload accepted on the command topic. Parameters are flat
// next to id and op; only the ones the op needs are read.
type Command struct {
	ID string `json:"id"`
	Op string `json:"op"`

	Frequency float64 `json:"frequency"`
	Level     int     `json:"level"`
	Tail      int     `json:"tail"`
	at.Group
	radio.Filter
}

// CommandResult is published on the result topic for every command.
type CommandResult struct {
	ID       string `json:"id"`
	Op       string `json:"op"`
	Result   string `json:"result"`
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// Bridge relays MQTT commands to the radio and publishes their results.
type Bridge struct {
	Logger *slog.Logger
	Radio  *radio.CommandChannel
	Config MQTTConfig
	// Timeout bounds a single command, including waiting for the channel
	Timeout time.Duration
}

// HandleCommand decodes payload, runs it against the radio and builds the
// result. Malformed payloads produce a result with Error set.
func (b *Bridge) HandleCommand(ctx context.Context, payload []byte) CommandResult {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return CommandResult{Result: at.ResultError.String(), Error: fmt.Sprintf("bad payload: %v", err)}
	}

	res := CommandResult{ID: cmd.ID, Op: cmd.Op, Result: at.ResultError.String()}
	op, ok := at.ParseOperation(cmd.Op)
	if !ok {
		res.Error = fmt.Sprintf("unknown op %q", cmd.Op)
		return res
	}

	var frame string
	switch op {
	case at.OpConnect:
		frame = at.Connect()
	case at.OpScan:
		frame = at.Scan(cmd.Frequency)
	case at.OpSetGroup:
		frame = at.SetGroup(cmd.Group)
	case at.OpSetVolume:
		frame = at.SetVolume(cmd.Level)
	case at.OpSetFilter:
		frame = at.SetFilter(cmd.PreDeEmphasis, cmd.HighPass, cmd.LowPass)
	case at.OpSetTail:
		frame = at.SetTail(cmd.Tail)
	case at.OpReadRSSI:
		frame = at.CmdRSSI
	case at.OpReadGroup:
		frame = at.CmdReadGroup
	case at.OpVersion:
		frame = at.CmdVersion
	}

	reply, err := b.Radio.Send(ctx, op, frame)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Result = reply.Result.String()
	res.Response = reply.Response
	return res
}

func (b *Bridge) onMessage(client mqtt.Client, m mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), b.Timeout)
	defer cancel()

	res := b.HandleCommand(ctx, m.Payload())
	if res.Error != "" {
		b.Logger.Warn("MQTT command failed", "id", res.ID, "op", res.Op, "error", res.Error)
	} else {
		b.Logger.Info("MQTT command done", "id", res.ID, "op", res.Op, "result", res.Result)
	}

	data, err := json.Marshal(res)
	if err != nil {
		b.Logger.Error("Failed to encode MQTT result", "error", err)
		return
	}
	if token := client.Publish(b.Config.ResultTopic, 0, false, data); token.Wait() && token.Error() != nil {
		b.Logger.Error("MQTT publish error", "topic", b.Config.ResultTopic, "error", token.Error())
	}
}

// Start connects to the broker and subscribes to the command topic. It
// returns nil when no broker is configured. The client disconnects when ctx
// is done.
func (b *Bridge) Start(ctx context.Context) mqtt.Client {
	if b.Config.Broker == "" {
		return nil
	}
	if b.Timeout <= 0 {
		b.Timeout = 30 * time.Second
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(b.Config.Broker)
	opts.SetClientID(b.Config.ClientID)
	if b.Config.Username != "" {
		opts.SetUsername(b.Config.Username)
		opts.SetPassword(b.Config.Password)
	}
	// Commands are serialized by the radio anyway; keep them in arrival order.
	opts.SetOrderMatters(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		b.Logger.Warn("MQTT connection lost", "error", err)
	})
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		b.Logger.Info("MQTT connected, subscribing", "topic", b.Config.CommandTopic)
		if token := c.Subscribe(b.Config.CommandTopic, 0, b.onMessage); token.Wait() && token.Error() != nil {
			b.Logger.Error("MQTT subscribe error", "topic", b.Config.CommandTopic, "error", token.Error())
		}
	})

	cli := mqtt.NewClient(opts)
	if t := cli.Connect(); t.Wait() && t.Error() != nil {
		b.Logger.Error("MQTT connect error", "broker", b.Config.Broker, "error", t.Error())
	}
	go func() {
		<-ctx.Done()
		cli.Disconnect(500)
	}()
	return cli
}
