package workflow

import "errors"

var (
	// ErrNoProductImage is returned when a poster is requested before an image was uploaded.
	ErrNoProductImage = errors.New("no product image uploaded")

	// ErrPosterInFlight is returned when a poster generation is already running.
	ErrPosterInFlight = errors.New("poster generation already in progress")

	// ErrVideosInFlight is returned when videos are requested while a previous batch is still generating.
	ErrVideosInFlight = errors.New("video generation already in progress")

	// ErrPosterChanged is returned when the poster was replaced or cleared between reading it and dispatching videos for it.
	ErrPosterChanged = errors.New("poster changed before videos were dispatched")

	// ErrNothingToDispatch is returned when there is no poster or no location prompt to fan out.
	ErrNothingToDispatch = errors.New("nothing to dispatch: poster and at least one location are required")

	// ErrStaleSettlement reports a settlement whose request no longer exists in the current state.
	ErrStaleSettlement = errors.New("settlement does not match current state")
)
