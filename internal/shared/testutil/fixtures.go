package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ZomatoHeader is the header row of the raw dataset
const ZomatoHeader = "Restaurant ID,Restaurant Name,Country Code,City,Address,Locality,Locality Verbose,Longitude,Latitude,Cuisines,Average Cost for two,Currency,Has Table booking,Has Online delivery,Is delivering now,Switch to order menu,Price range,Aggregate rating,Rating color,Rating text,Votes"

// ZomatoCSV is a small raw dataset. Cleaning it keeps 8 of 11 rows:
// row 8 duplicates row 5, row 9 has no cuisine and Gold Leaf costs
// 1080 dollars for two.
const ZomatoCSV = ZomatoHeader + `
1001,Spice Route,1,New Delhi,1 Janpath,Connaught Place,"Connaught Place, New Delhi",77.2167,28.6315,"North Indian, Chinese",800,Indian Rupees(Rs.),Yes,Yes,Yes,No,2,4.6,3F7E00,Excellent,500
1002,Curry House,1,Mumbai,2 Marine Drive,Colaba,"Colaba, Mumbai",72.8311,18.9067,South Indian,400,Indian Rupees(Rs.),No,Yes,No,No,1,3.9,9ACD32,Good,120
1003,Tandoor,1,New Delhi,3 Ring Road,Lajpat Nagar,"Lajpat Nagar, New Delhi",77.2431,28.5677,North Indian,1500,Indian Rupees(Rs.),Yes,No,No,No,3,4.2,5BA829,Very Good,300
2001,Burger Barn,216,Austin,10 Congress Ave,Downtown,"Downtown, Austin",-97.7431,30.2672,"American, Burger",30,Dollar($),No,No,No,No,2,4.9,3F7E00,Excellent,900
2002,Taco Town,216,Austin,22 South Lamar,Zilker,"Zilker, Austin",-97.7699,30.2499,Mexican,20,Dollar($),No,No,No,No,1,3.2,CDD614,Average,80
3001,Churrascaria,30,Rio de Janeiro,5 Rua Visconde,Leblon,"Leblon, Rio de Janeiro",-43.2237,-22.9840,Brazilian,200,Brazilian Real(R$),No,No,No,No,4,0,CBCBC8,Not rated,0
4001,Fish Shack,215,London,7 Dock Street,Wapping,"Wapping, London",-0.0626,51.5045,Seafood,50,Pounds(£),Yes,No,No,No,3,2.4,FF7800,Poor,40
2002,Taco Town,216,Austin,22 South Lamar,Zilker,"Zilker, Austin",-97.7699,30.2499,Mexican,20,Dollar($),No,No,No,No,1,3.2,CDD614,Average,80
5001,Nameless,1,Mumbai,9 Link Road,Bandra,"Bandra, Mumbai",72.8410,19.0596,,300,Indian Rupees(Rs.),No,No,No,No,1,3.0,CDD614,Average,12
6001,Gold Leaf,214,Dubai,1 Sheikh Zayed Road,Downtown,"Downtown, Dubai",55.2744,25.1972,Arabian,4000,Emirati Diram(AED),Yes,No,No,No,4,4.1,5BA829,Very Good,75
4002,Pie Palace,215,London,12 Borough High Street,Southwark,"Southwark, London",-0.0910,51.5033,British,40,Pounds(£),No,Yes,Yes,No,3,4.5,3F7E00,Excellent,260
`

// ZomatoCSVKept is the number of rows that survive cleaning of ZomatoCSV
const ZomatoCSVKept = 8

// WriteFile writes content to name inside a fresh temp directory and returns the path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}

// WriteZomatoCSV writes ZomatoCSV to a temp file and returns its path
func WriteZomatoCSV(t *testing.T) string {
	t.Helper()
	return WriteFile(t, "zomato.csv", ZomatoCSV)
}
