/*
presets.go - Built-in policy tables

The default table is the 1U Shopping Centre rate card: five zones, a 4 AM
overnight cutoff, lost-ticket penalties by claimant class, and a single
validation partner (Woolworths, $30 minimum spend for 2 free hours).
*/
package factory

import "github.com/warp/parking-engine/tariff"

// DefaultPolicyJSON returns the 1U Shopping Centre policy table as JSON.
// Useful as a starting point for a site-specific policy file.
func DefaultPolicyJSON() string {
	return `{
  "cutoff_time": "04:00",
  "zones": {
    "REGULAR": {
      "members_only": false,
      "grace_minutes": 15,
      "weekday": {"first2h_flat": "4.00", "per_hour": "4.00"},
      "weekend": {"first2h_flat": "2.00", "per_hour": "4.00"},
      "public_holiday": {"first2h_flat": "2.00", "per_hour": "3.00"},
      "daily_cap": "20.00",
      "overnight_penalty": "80.00"
    },
    "PREFERRED": {
      "members_only": true,
      "grace_minutes": 15,
      "weekday": {"first2h_flat": "3.00", "per_hour": "4.00"},
      "weekend": {"first2h_flat": "2.00", "per_hour": "3.00"},
      "public_holiday": {"first2h_flat": "2.00", "per_hour": "2.00"},
      "daily_cap": "20.00",
      "overnight_penalty": "80.00"
    },
    "OUTDOOR": {
      "members_only": false,
      "grace_minutes": 0,
      "weekday": {"per_entry_member": "2.00", "per_entry_non_member": "4.00"},
      "weekend": {"per_entry_member": "1.00", "per_entry_non_member": "3.00"},
      "public_holiday": {"per_entry_member": "1.00", "per_entry_non_member": "3.00"},
      "overnight_penalty": "80.00"
    },
    "VALET": {
      "members_only": false,
      "grace_minutes": 0,
      "weekday": {"first2h_flat": "10.00", "per_hour": "15.00"},
      "weekend": {"first2h_flat": "15.00", "per_hour": "15.00"},
      "public_holiday": {"first2h_flat": "20.00", "per_hour": "15.00"},
      "overnight_penalty": "120.00"
    },
    "STAFF": {
      "members_only": true,
      "grace_minutes": 0,
      "weekday": {"per_hour": "1.00"},
      "weekend": {"per_hour": "1.00"},
      "public_holiday": {"per_hour": "1.00"},
      "daily_cap": "7.00",
      "overnight_penalty": "80.00"
    }
  },
  "memberships": {
    "NON-MEMBER": {"free_hours": 0, "daily_cap": null},
    "MEMBER": {"free_hours": 2, "daily_cap": null},
    "SILVER": {"free_hours": 4, "daily_cap": null},
    "GOLD": {"free_hours": 4, "daily_cap": "15.00"},
    "STAFF": {"free_hours": 0, "daily_cap": null}
  },
  "penalties": {
    "lost_ticket": {"non_member": "50.00", "member": "30.00", "valet": "80.00"}
  },
  "validations": {
    "partners": {
      "woolworths": {"min_spend": "30", "free_hours": 2}
    }
  }
}`
}

// Default builds the 1U Shopping Centre policy table. It panics on failure,
// which can only happen if the embedded preset itself is broken.
func Default() *tariff.PolicyTable {
	table, err := NewPolicyFactory().ParsePolicy(DefaultPolicyJSON())
	if err != nil {
		panic("factory: default policy table is invalid: " + err.Error())
	}
	return table
}
