package services

// Store keys. Token and guest flag are plain strings, the rest JSON.
const (
	keyAuthToken      = "authToken"
	keyUser           = "user"
	keyGuestMode      = "guestMode"
	keyGuestHydration = "guestHydrationData"
	keyGuestProfile   = "guestProfile"
	keyGuestHistory   = "guestHistory"

	guestModeOn = "true"
)

var (
	authKeys  = []string{keyAuthToken, keyUser, keyGuestMode}
	guestKeys = []string{keyGuestMode, keyGuestHydration, keyGuestProfile, keyGuestHistory}
)
