// Package beacon provides fire-and-forget delivery channels for flushed metric payloads.
//
// A [Sender] queues a payload and returns immediately. Delivery happens on a
// background worker; failures are logged and never retried. [New] chooses the
// transport from the report URI scheme:
//   - http, https: POST with a JSON body ([HTTP])
//   - ws, wss: one text message per payload ([WebSocket])
//   - file: one line per payload, appended under an exclusive file lock ([File])
//
// Close drains the queue so payloads handed over during teardown still go out:
//
//	sender, err := beacon.New("https://collector.example.com/vitals")
//	if err != nil {
//		return err
//	}
//	defer sender.Close(ctx)
//	sender.Send(payload)
package beacon
