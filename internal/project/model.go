package project

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Investment categories offered on the platform.
const (
	TypeAgriculture = "agriculture"
	TypeRealEstate  = "real-estate"
)

// InvestmentProject is the asset itself.
type InvestmentProject struct {
	gorm.Model
	Name             string          `gorm:"size:255;not null;index" json:"name"`
	InvestmentType   string          `gorm:"size:20;not null;index" json:"investmentType"`
	AssetType        string          `gorm:"size:20;not null" json:"assetType"` // e.g. "terrace", "farmland"
	Location         string          `gorm:"size:255;not null" json:"location"`
	InvestmentDetail string          `gorm:"type:text" json:"investmentDetail"`
	ROIStartAfter    int             `gorm:"not null;default:0" json:"roiStartAfterDays"` // days after completion before ROI starts
	ExpectedROI      decimal.Decimal `gorm:"type:numeric(5,2)" json:"expectedRoiPercent"`
	Active           bool            `gorm:"not null;default:true;index" json:"active"`
}

// Migrate creates the projects table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&InvestmentProject{})
}
