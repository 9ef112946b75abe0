package models

// Category represents a spending or income category.
type Category string

const (
	CategoryGroceries    Category = "Groceries"
	CategoryHousing      Category = "Housing"
	CategoryBills        Category = "Bills"
	CategoryLeisure      Category = "Leisure"
	CategoryCar          Category = "Car"
	CategoryHealth       Category = "Health"
	CategoryInstallment  Category = "Installment"
	CategorySubscription Category = "Subscription"
	CategorySalary       Category = "Salary"
	CategoryGift         Category = "Gift"
	CategoryRefund       Category = "Refund"
	CategoryExtra        Category = "Extra"
	CategoryOther        Category = "Other"
)

// CategoryFallback is assigned to synthesized entries whose recurring
// charge has no label.
const CategoryFallback = CategorySubscription

// ExpenseCategories is the closed set offered for expense entries.
var ExpenseCategories = []Category{
	CategoryGroceries,
	CategoryHousing,
	CategoryBills,
	CategoryLeisure,
	CategoryCar,
	CategoryHealth,
	CategoryInstallment,
	CategorySubscription,
	CategoryOther,
}

// IncomeCategories is the closed set offered for income entries.
var IncomeCategories = []Category{
	CategorySalary,
	CategoryGift,
	CategoryRefund,
	CategoryExtra,
	CategoryOther,
}
