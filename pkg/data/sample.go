package data

// SampleApplicants is the bundled 12-row example dataset used when no
// external data source is loaded.
var SampleApplicants = []Applicant{
	{Age: 25, Gender: "M", Marital: "single", Children: 0, Employer: "TechSoft", Position: "engineer", Property: "rented", HasCar: false, City: "Moscow", Purpose: "buy a new car", Repaid: 1},
	{Age: 34, Gender: "F", Marital: "married", Children: 2, Employer: "MedCenter", Position: "nurse", Property: "owned", HasCar: true, City: "Saint Petersburg", Purpose: "home renovation and new furniture", Repaid: 1},
	{Age: 29, Gender: "M", Marital: "married", Children: 1, Employer: "StroyInvest", Position: "foreman", Property: "mortgaged", HasCar: true, City: "Novosibirsk", Purpose: "wedding anniversary trip", Repaid: 0},
	{Age: 41, Gender: "F", Marital: "divorced", Children: 2, Employer: "SchoolNo7", Position: "teacher", Property: "owned", HasCar: false, City: "Kazan", Purpose: "education for my son", Repaid: 1},
	{Age: 23, Gender: "M", Marital: "single", Children: 0, Employer: "QuickFood", Position: "cook", Property: "rented", HasCar: false, City: "Tula", Purpose: "vacation trip to the sea", Repaid: 0},
	{Age: 37, Gender: "F", Marital: "married", Children: 3, Employer: "CityBank", Position: "accountant", Property: "owned", HasCar: true, City: "Moscow", Purpose: "medical treatment for mother", Repaid: 1},
	{Age: 31, Gender: "M", Marital: "married", Children: 1, Employer: "TechSoft", Position: "manager", Property: "mortgaged", HasCar: true, City: "Yekaterinburg", Purpose: "buy apartment repairs", Repaid: 1},
	{Age: 46, Gender: "M", Marital: "married", Children: 2, Employer: "LogiTrans", Position: "driver", Property: "owned", HasCar: true, City: "Omsk", Purpose: "start small business", Repaid: 0},
	{Age: 27, Gender: "F", Marital: "single", Children: 0, Employer: "StyleShop", Position: "seller", Property: "rented", HasCar: false, City: "Samara", Purpose: "refinance old debts", Repaid: 0},
	{Age: 39, Gender: "M", Marital: "divorced", Children: 1, Employer: "StroyInvest", Position: "engineer", Property: "rented", HasCar: true, City: "Saint Petersburg", Purpose: "new furniture for apartment", Repaid: 1},
	{Age: 33, Gender: "F", Marital: "married", Children: 2, Employer: "MedCenter", Position: "doctor", Property: "owned", HasCar: false, City: "Kazan", Purpose: "repair the old car", Repaid: 1},
	{Age: 52, Gender: "M", Marital: "married", Children: 3, Employer: "LogiTrans", Position: "dispatcher", Property: "owned", HasCar: true, City: "Balashikha", Purpose: "children education fees", Repaid: 0},
}
