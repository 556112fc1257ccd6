// Package outcome holds the tagged result returned by the chat relay and the
// credential handler, and translates backend failures into the text shown to
// the user.
//
// Handlers never return Go errors for failed round trips. They return a
// Result whose Kind tells the caller what happened:
//
//	res := relay.Send(ctx, sess, "what's on my calendar tomorrow?")
//	switch res.Kind {
//	case outcome.KindSuccess:
//		fmt.Println(res.Text)
//	case outcome.KindTransport:
//		fmt.Println("backend unreachable:", res.Display())
//	}
package outcome
