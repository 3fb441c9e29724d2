package app

const ServiceName = "hostel-service"

// Set via -ldflags during build:
//
//	go build -ldflags="-X 'hostel-service/internal/app.Version=1.0.0'"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
