package delivery

import "math/rand"

// Driver is a courier that can be assigned to a delivery
type Driver struct {
	Name  string
	Phone string
}

// driverPool is the fixed courier roster. Assignment picks uniformly at
// random; there is no availability tracking.
var driverPool = []Driver{
	{Name: "Carlos Martinez", Phone: "+1-555-0101"},
	{Name: "Sarah Johnson", Phone: "+1-555-0102"},
	{Name: "Mike Chen", Phone: "+1-555-0103"},
	{Name: "Priya Patel", Phone: "+1-555-0104"},
	{Name: "James Wilson", Phone: "+1-555-0105"},
}

// pickDriver selects a random driver from the pool
func pickDriver() Driver {
	return driverPool[rand.Intn(len(driverPool))]
}
