package main

import (
	"log"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

type Sale struct {
	ID       int64     `parquet:"id"`
	Region   string    `parquet:"region"`
	Product  string    `parquet:"product"`
	Units    int32     `parquet:"units"`
	Price    float64   `parquet:"price"`
	Discount *float64  `parquet:"discount,optional"`
	SoldAt   time.Time `parquet:"sold_at"`
}

func main() {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 9, 0, 0, 0, time.UTC) }
	tenPct := 0.1

	sales := []Sale{
		{ID: 1, Region: "north", Product: "widget", Units: 3, Price: 9.5, SoldAt: day(2)},
		{ID: 2, Region: "south", Product: "gadget", Units: 7, Price: 4.25, Discount: &tenPct, SoldAt: day(3)},
		{ID: 3, Region: "north", Product: "gadget", Units: 1, Price: 12, SoldAt: day(5)},
		{ID: 4, Region: "east", Product: "widget", Units: 5, Price: 9.5, SoldAt: day(8)},
		{ID: 5, Region: "south", Product: "widget", Units: 2, Price: 9.75, Discount: &tenPct, SoldAt: day(13)},
	}

	file, err := os.Create("sales.parquet")
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Sale](file)
	defer writer.Close()

	if _, err := writer.Write(sales); err != nil {
		log.Fatal(err)
	}

	log.Println("Generated sales.parquet with 5 sales")
}
