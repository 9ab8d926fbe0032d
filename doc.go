/*
Package mindshift is the session façade of the Mind Shifting treatment
protocol engine. It drives a user through a scripted, multi-method
therapeutic dialogue, answering from a fixed script table whenever
possible and falling back to a generative adapter only on the few
open-ended steps.

Three operations are exposed: Start, Continue and Undo. Every turn is
deterministic given the same state and input, each session is strictly
single-writer, and a bounded history stack makes every transition
reversible one step at a time.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/mindshifting/mindshift"
	)

	func main() {
		eng := mindshift.New()

		ctx := context.Background()
		res, err := eng.Start(ctx, "session-123", "user-1", "Ada")
		if err != nil {
			log.Fatal(err)
		}
		log.Println(res.Message) // welcome + work-type menu

		res, err = eng.Continue(ctx, "session-123", "user-1", "2")
		if err != nil {
			log.Fatal(err)
		}
		log.Println(res.CurrentStep) // reality_shifting_intro (GOAL auto-assigns)
	}

By default sessions live in memory. Production deployments inject a
Redis store, a distributed locker and a generative adapter via the
functional options.
*/
package mindshift
