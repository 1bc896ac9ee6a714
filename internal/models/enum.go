package models

type GrazingEventStatus string

const (
	GrazingEventStatusPlanned  GrazingEventStatus = "planned"
	GrazingEventStatusActive   GrazingEventStatus = "active"
	GrazingEventStatusDone     GrazingEventStatus = "done"
	GrazingEventStatusCanceled GrazingEventStatus = "canceled"
)

func (s GrazingEventStatus) IsValid() bool {
	switch s {
	case GrazingEventStatusPlanned, GrazingEventStatusActive, GrazingEventStatusDone, GrazingEventStatusCanceled:
		return true
	}
	return false
}

type WaterPointType string

const (
	WaterPointTypeTrough   WaterPointType = "bebedero"
	WaterPointTypeTank     WaterPointType = "tanque"
	WaterPointTypeWindmill WaterPointType = "molino"
)

func (t WaterPointType) IsValid() bool {
	switch t {
	case WaterPointTypeTrough, WaterPointTypeTank, WaterPointTypeWindmill:
		return true
	}
	return false
}

type MembershipRole string

const (
	MembershipRoleOwner  MembershipRole = "owner"
	MembershipRoleAdmin  MembershipRole = "admin"
	MembershipRoleMember MembershipRole = "member"
)
