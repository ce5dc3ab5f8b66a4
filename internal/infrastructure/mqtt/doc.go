// Package mqtt connects the dashboard core to an MQTT broker.
//
// The home controller pushes device state on homedash/state/{room}/{device}
// and the core announces scene activations on
// homedash/core/scene/{id}/activated. A retained status message on
// homedash/system/status (with a matching Last Will) lets other services
// see whether the core is online.
//
//	client, err := mqtt.Connect(ctx, cfg.MQTT, logger)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllDeviceStates(), 1,
//	    func(topic string, payload []byte) error {
//	        room, device, _ := mqtt.Topics{}.ParseDeviceState(topic)
//	        ...
//	    })
package mqtt
