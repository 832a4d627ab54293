package domain

import "errors"

// Sentinel errors for device operations
var (
	// ErrTransportUnavailable indicates the adb executable could not be found
	ErrTransportUnavailable = errors.New("adb executable not found")

	// ErrTimeout indicates a single device call exceeded its deadline
	ErrTimeout = errors.New("device command timed out")

	// ErrDeviceOffline indicates the device session dropped mid-operation
	ErrDeviceOffline = errors.New("device is offline")

	// ErrNoRouteFound indicates the device's route table yielded no usable output
	ErrNoRouteFound = errors.New("no network route reported by device")

	// ErrRouteParse indicates the device IP could not be parsed from the route table
	ErrRouteParse = errors.New("could not parse device IP from route output")

	// ErrConnectRejected indicates the wireless connect attempt was not acknowledged
	ErrConnectRejected = errors.New("device rejected wireless connection")
)
