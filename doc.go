// Package mqtt implements a single-connection, transport-agnostic MQTT
// 3.1.1 client engine for constrained devices.
//
// The engine owns no threads and performs no dynamic allocation of its
// own: it borrows a single caller-supplied buffer for every packet it
// assembles or receives, and drives all I/O through the caller-supplied
// Transport and ApplicationCallbacks. There is no reconnection, no
// session persistence across disconnects, and no support for concurrent
// use from multiple goroutines — see Context for the exact ownership and
// re-entrancy rules.
//
// The wire codec lives in the sibling lightweight package, and the QoS
// acknowledgement tracking lives in the sibling state package; this
// package combines them into Connect, Publish, Subscribe, Unsubscribe,
// Ping, Disconnect, and the cooperative ProcessLoop.
//
// # Quick start
//
//	var ctx mqtt.Context
//	if status := ctx.Init(transport, callbacks, buf); !status.OK() {
//	    log.Fatal(status)
//	}
//	if _, status := ctx.Connect(&lightweight.ConnectInfo{
//	    ClientID:      "sensor-1",
//	    CleanSession:  true,
//	    KeepAliveSecs: 60,
//	}); !status.OK() {
//	    log.Fatal(status)
//	}
//	for {
//	    if status := ctx.ProcessLoop(1000); !status.OK() {
//	        log.Fatal(status)
//	    }
//	}
package mqtt
