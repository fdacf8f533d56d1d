package utils

const (
	OrganizationName = "mishTee"
	ProductName      = "mishTee Delivery Mitra"

	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"

	TestPhoneNumberBase = "+999"
)
