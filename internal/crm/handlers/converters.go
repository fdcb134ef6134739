package handlers

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/gartstein/crm/internal/pkg/utils"
	"github.com/google/uuid"
)

const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
)

// requestConverter collects the field errors of one request body.
type requestConverter struct {
	errs e.ValidationError
}

func (rc *requestConverter) require(field string, present bool) {
	if !present {
		rc.errs.Add(field, msgRequired)
	}
}

// text trims v and rejects a blank value unless blankOK.
func (rc *requestConverter) text(field string, v *string, blankOK bool) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" && !blankOK {
		rc.errs.Add(field, msgBlank)
	}
	return &trimmed
}

func (rc *requestConverter) time(field string, v *string) *time.Time {
	if v == nil {
		return nil
	}
	t, err := filters.ParseTime(*v)
	if err != nil {
		rc.errs.Add(field, "Datetime has wrong format. Use one of these formats instead: YYYY-MM-DD hh:mm[:ss], YYYY-MM-DDThh:mm:ss[Z], YYYY-MM-DD.")
		return nil
	}
	return &t
}

// ref resolves a related entity given either as an id or as its detail URL.
func (rc *requestConverter) ref(field string, v *string) *uuid.UUID {
	if v == nil {
		return nil
	}
	id, err := parseRef(*v)
	if err != nil {
		rc.errs.Add(field, fmt.Sprintf("Invalid hyperlink - No URL match. (%s)", *v))
		return nil
	}
	return &id
}

func (rc *requestConverter) refs(field string, v *[]string) *[]uuid.UUID {
	if v == nil {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(*v))
	for _, s := range *v {
		id, err := parseRef(s)
		if err != nil {
			rc.errs.Add(field, fmt.Sprintf("Invalid hyperlink - No URL match. (%s)", s))
			return nil
		}
		ids = append(ids, id)
	}
	return &ids
}

func (rc *requestConverter) err() error {
	return rc.errs.OrNil()
}

// parseRef accepts "<id>" or "<base>/<resource>/<id>[/]".
func parseRef(s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if u, err := url.Parse(s); err == nil && u.Path != "" {
		s = u.Path
	}
	return uuid.Parse(path.Base(strings.TrimRight(s, "/")))
}

type professionRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=50"`
	Description *string `json:"description"`
}

func (r *professionRequest) convert(rc *requestConverter, partial bool) *models.ProfessionUpdate {
	if !partial {
		rc.require("name", r.Name != nil)
	}
	return &models.ProfessionUpdate{
		Name:        rc.text("name", r.Name, false),
		Description: rc.text("description", r.Description, false),
	}
}

func (r *professionRequest) toModel() (*models.Profession, error) {
	var rc requestConverter
	u := r.convert(&rc, false)
	if err := rc.err(); err != nil {
		return nil, err
	}
	return &models.Profession{
		Name:        utils.Deref(u.Name),
		Description: utils.Deref(u.Description),
	}, nil
}

func (r *professionRequest) toUpdate(id uuid.UUID, partial bool) (*models.ProfessionUpdate, error) {
	var rc requestConverter
	u := r.convert(&rc, partial)
	if err := rc.err(); err != nil {
		return nil, err
	}
	u.ID = id
	return u, nil
}

type companyRequest struct {
	Name             *string   `json:"name" binding:"omitempty,max=100"`
	Logo             *string   `json:"logo" binding:"omitempty,max=255"`
	Tagline          *string   `json:"tagline" binding:"omitempty,max=100"`
	TypeOfCompany    *string   `json:"type_of_company" binding:"omitempty,max=100"`
	Description      *string   `json:"description"`
	YearOfFoundation *string   `json:"year_of_foundation"`
	Country          *string   `json:"country" binding:"omitempty,max=100"`
	PhoneNumber      *string   `json:"phone_number" binding:"omitempty,max=13"`
	Email            *string   `json:"email" binding:"omitempty,max=100,eq=|email"`
	Partners         *[]string `json:"partners"`
}

func (r *companyRequest) convert(rc *requestConverter, partial bool) *models.CompanyUpdate {
	if !partial {
		rc.require("name", r.Name != nil)
		rc.require("type_of_company", r.TypeOfCompany != nil)
		rc.require("year_of_foundation", r.YearOfFoundation != nil)
		rc.require("country", r.Country != nil)
	}
	return &models.CompanyUpdate{
		Name:             rc.text("name", r.Name, false),
		Logo:             rc.text("logo", r.Logo, true),
		Tagline:          rc.text("tagline", r.Tagline, true),
		TypeOfCompany:    rc.text("type_of_company", r.TypeOfCompany, false),
		Description:      rc.text("description", r.Description, true),
		YearOfFoundation: rc.time("year_of_foundation", r.YearOfFoundation),
		Country:          rc.text("country", r.Country, false),
		PhoneNumber:      rc.text("phone_number", r.PhoneNumber, true),
		Email:            rc.text("email", r.Email, true),
		PartnerIDs:       rc.refs("partners", r.Partners),
	}
}

// toModel returns the company to create and the ids of its partners.
func (r *companyRequest) toModel() (*models.Company, []uuid.UUID, error) {
	var rc requestConverter
	u := r.convert(&rc, false)
	if err := rc.err(); err != nil {
		return nil, nil, err
	}
	return &models.Company{
		Name:             utils.Deref(u.Name),
		Logo:             utils.Deref(u.Logo),
		Tagline:          utils.Deref(u.Tagline),
		TypeOfCompany:    utils.Deref(u.TypeOfCompany),
		Description:      utils.Deref(u.Description),
		YearOfFoundation: utils.Deref(u.YearOfFoundation),
		Country:          utils.Deref(u.Country),
		PhoneNumber:      utils.Deref(u.PhoneNumber),
		Email:            utils.Deref(u.Email),
	}, utils.Deref(u.PartnerIDs), nil
}

func (r *companyRequest) toUpdate(id uuid.UUID, partial bool) (*models.CompanyUpdate, error) {
	var rc requestConverter
	u := r.convert(&rc, partial)
	if err := rc.err(); err != nil {
		return nil, err
	}
	u.ID = id
	return u, nil
}

type employeeRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=100"`
	Age           *int    `json:"age" binding:"omitempty,min=0,max=32767"`
	Gender        *string `json:"gender" binding:"omitempty,oneof=male female"`
	Photo         *string `json:"photo" binding:"omitempty,max=255"`
	Company       *string `json:"company"`
	Profession    *string `json:"profession"`
	Salary        *int64  `json:"salary" binding:"omitempty,min=0"`
	PromotionDate *string `json:"promotion_date"`
	PhoneNumber   *string `json:"phone_number" binding:"omitempty,max=13"`
	Email         *string `json:"email" binding:"omitempty,max=100,eq=|email"`
}

func (r *employeeRequest) convert(rc *requestConverter, partial bool) *models.EmployeeUpdate {
	if !partial {
		rc.require("name", r.Name != nil)
		rc.require("age", r.Age != nil)
		rc.require("company", r.Company != nil)
		rc.require("profession", r.Profession != nil)
		rc.require("salary", r.Salary != nil)
		rc.require("promotion_date", r.PromotionDate != nil)
	}
	var gender *models.Gender
	if r.Gender != nil {
		gender = utils.Ptr(models.Gender(*r.Gender))
	}
	return &models.EmployeeUpdate{
		Name:          rc.text("name", r.Name, false),
		Age:           r.Age,
		Gender:        gender,
		Photo:         rc.text("photo", r.Photo, true),
		CompanyID:     rc.ref("company", r.Company),
		ProfessionID:  rc.ref("profession", r.Profession),
		Salary:        r.Salary,
		PromotionDate: rc.time("promotion_date", r.PromotionDate),
		PhoneNumber:   rc.text("phone_number", r.PhoneNumber, true),
		Email:         rc.text("email", r.Email, true),
	}
}

func (r *employeeRequest) toModel() (*models.Employee, error) {
	var rc requestConverter
	u := r.convert(&rc, false)
	if err := rc.err(); err != nil {
		return nil, err
	}
	return &models.Employee{
		Name:          utils.Deref(u.Name),
		Age:           utils.Deref(u.Age),
		Gender:        utils.Deref(u.Gender),
		Photo:         utils.Deref(u.Photo),
		CompanyID:     utils.Deref(u.CompanyID),
		ProfessionID:  utils.Deref(u.ProfessionID),
		Salary:        utils.Deref(u.Salary),
		PromotionDate: utils.Deref(u.PromotionDate),
		PhoneNumber:   utils.Deref(u.PhoneNumber),
		Email:         utils.Deref(u.Email),
	}, nil
}

func (r *employeeRequest) toUpdate(id uuid.UUID, partial bool) (*models.EmployeeUpdate, error) {
	var rc requestConverter
	u := r.convert(&rc, partial)
	if err := rc.err(); err != nil {
		return nil, err
	}
	u.ID = id
	return u, nil
}

// partnershipRequest carries the only writable field of a partnership.
type partnershipRequest struct {
	JointProducts *string `json:"joint_products" binding:"omitempty,max=250"`
}

func (r *partnershipRequest) toUpdate(id uuid.UUID, _ bool) (*models.PartnerShipUpdate, error) {
	var rc requestConverter
	products := rc.text("joint_products", r.JointProducts, true)
	return &models.PartnerShipUpdate{ID: id, JointProducts: products}, nil
}
