// Package shop provides thin typed clients for the demo store's API. They
// layer domain validation (the site's in-body responseCode) on top of the
// generic apiclient transport; errors are annotated and returned, never
// swallowed.
package shop

import "fmt"

// Product as returned by productsList and searchProduct
type Product struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	Price    string        `json:"price"`
	Brand    string        `json:"brand"`
	Category ProductFamily `json:"category"`
}

// ProductFamily is the nested category object on a product
type ProductFamily struct {
	Usertype struct {
		Usertype string `json:"usertype"`
	} `json:"usertype"`
	Category string `json:"category"`
}

// Brand as returned by brandsList
type Brand struct {
	ID    int    `json:"id"`
	Brand string `json:"brand"`
}

// User as returned by getUserDetailByEmail
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Title     string `json:"title"`
	Birthday  string `json:"birth_day"`
	Country   string `json:"country"`
	City      string `json:"city"`
	Zipcode   string `json:"zipcode"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
}

// The site reports outcomes inside a 200 body: responseCode carries the real
// status and message the failure detail.
type productsResponse struct {
	ResponseCode int       `json:"responseCode"`
	Message      string    `json:"message"`
	Products     []Product `json:"products"`
}

type brandsResponse struct {
	ResponseCode int     `json:"responseCode"`
	Message      string  `json:"message"`
	Brands       []Brand `json:"brands"`
}

type loginResponse struct {
	ResponseCode int    `json:"responseCode"`
	Message      string `json:"message"`
}

type userResponse struct {
	ResponseCode int    `json:"responseCode"`
	Message      string `json:"message"`
	User         User   `json:"user"`
}

// checkResponseCode validates the in-body status. Zero means the field was
// absent, which some endpoints legitimately omit.
func checkResponseCode(endpoint string, code int, message string) error {
	if code == 0 || code == 200 {
		return nil
	}
	if message == "" {
		message = "request rejected"
	}
	return fmt.Errorf("%s returned responseCode %d: %s", endpoint, code, message)
}
