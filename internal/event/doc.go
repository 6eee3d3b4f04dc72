/*
Package event provides the pub/sub event system a verification run reports on.

# Architecture

Subscribers registered with Subscribe or SubscribeAll are called directly, in
the publishing goroutine, so they observe the run step by step. Every event is
also mirrored as a JSON message on a watermill gochannel under Topic; Messages
streams them to consumers such as the CLI's --events output.

# Event Types

  - verify.started: a run began
  - verify.detected: source files were found and no configuration file exists
  - verify.bootstrapped: an empty configuration file was created
  - change.applied: one ChangeLog entry was applied to the written tree
  - config.written: the configuration file was rewritten
  - declarations.written: the ambient declarations file was created
  - verify.finished: a run completed
  - verify.aborted: a run stopped on a fatal condition

# Usage

	bus := event.NewBus()
	defer bus.Close()

	unsub := bus.Subscribe(event.ChangeApplied, func(e event.Event) {
		data := e.Data.(event.ChangeData)
		fmt.Println(data.Message)
	})
	defer unsub()
*/
package event
