package validation

// Request bodies accepted by the gateway. They are checked before any call to
// the API is made.

type LoginForm struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// VisitForm dates use the layout the API stores, so the optimistic copy of a
// new visit parses the same way the server's copy will.
type VisitForm struct {
	DoctorName string `json:"doctor_name" form:"doctor_name" validate:"required"`
	Location   string `json:"location" form:"location" validate:"required"`
	VisitDate  string `json:"visit_date" form:"visit_date" validate:"required,datetime=2006-01-02 15:04:05"`
	Notes      string `json:"notes" form:"notes"`
}

type CategoryForm struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Description string `json:"description" form:"description"`
	Status      string `json:"status" form:"status"`
}

// ProductForm names its category; the id is looked up before submitting.
type ProductForm struct {
	Name        string  `json:"name" form:"name" validate:"required"`
	Description string  `json:"description" form:"description"`
	Price       float64 `json:"price" form:"price" validate:"min=0"`
	Category    string  `json:"category" form:"category" validate:"required"`
	ImageName   string  `json:"image_name" form:"image_name"`
	ImageColor  string  `json:"image_color" form:"image_color"`
}

type UserForm struct {
	Username string `json:"username" form:"username" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	Role     string `json:"role" form:"role" validate:"omitempty,oneof=admin marketer doctor user"`
}

type UserUpdateForm struct {
	Username   string `json:"username" form:"username"`
	Email      string `json:"email" form:"email" validate:"omitempty,email"`
	Role       string `json:"role" form:"role" validate:"omitempty,oneof=admin marketer doctor user"`
	FirstName  string `json:"first_name" form:"first_name"`
	LastName   string `json:"last_name" form:"last_name"`
	Address    string `json:"address" form:"address"`
	City       string `json:"city" form:"city"`
	Country    string `json:"country" form:"country"`
	PostalCode string `json:"postal_code" form:"postal_code"`
}

type ProfileForm struct {
	Username   string `json:"username" form:"username"`
	Email      string `json:"email" form:"email" validate:"omitempty,email"`
	FirstName  string `json:"first_name" form:"first_name"`
	LastName   string `json:"last_name" form:"last_name"`
	Address    string `json:"address" form:"address"`
	City       string `json:"city" form:"city"`
	Country    string `json:"country" form:"country"`
	PostalCode string `json:"postal_code" form:"postal_code"`
	AboutMe    string `json:"about_me" form:"about_me"`
}

type PasswordForm struct {
	NewPassword string `json:"new_password" form:"new_password" validate:"required,min=6"`
}

type ReportForm struct {
	VisitID    int    `json:"visit_id" form:"visit_id" validate:"required,gt=0"`
	Title      string `json:"title" form:"title" validate:"required"`
	ReportText string `json:"report_text" form:"report_text" validate:"required"`
}

type GroupForm struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Description string `json:"description" form:"description"`
}

type MembershipForm struct {
	UserIDs []int `json:"user_ids" form:"user_ids" validate:"required,min=1,dive,gt=0"`
}
