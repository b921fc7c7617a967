package fabrica_test

import (
	"fmt"

	"github.com/katalvlaran/fabrica"
	"github.com/katalvlaran/fabrica/assign"
	"github.com/katalvlaran/fabrica/genval"
	"github.com/katalvlaran/fabrica/selectkit"
)

func ExampleCreate() {
	person, err := fabrica.Create[Person](
		fabrica.Set(selectkit.Field("Name"), "Simpson"),
		fabrica.Generate(selectkit.Field("Age"), genval.Ints().Range(30, 30)),
		fabrica.WithSeed(42),
	)
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	fmt.Println(person.Name, person.Age)
	// Output: Simpson 30
}

func ExampleToModel() {
	base := fabrica.ToModel[Order](
		fabrica.Set(selectkit.Field("Country"), "DE"),
		fabrica.Assign(assign.Given(
			selectkit.Field("Country"), selectkit.Field("Currency"),
			assign.When(assign.Is("DE"), "EUR"),
		).Else("USD")),
	)

	order, err := fabrica.Instantiate(base, fabrica.WithSeed(42))
	if err != nil {
		fmt.Println("error:", err)

		return
	}

	fmt.Println(order.Country, order.Currency)
	// Output: DE EUR
}
