// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package seed loads admin records and proposals from a YAML file.

	admins:
	  - userId: admin-1
	    assignedRegion: Oromia
	    assignedZoneOrSubcity: Adama
	    assignedWoreda: Woreda 01
	    permissions: [regional, woreda]
	proposals:
	  - createdBy: admin-1
	    title: Build a library in Adama
	    description: ...
	    category: development
	    scope: regional
	    target: Oromia
	    startsAt: 2025-01-01T00:00:00Z
	    endsAt: 2025-02-01T00:00:00Z

Proposals go through the same validation and permission gate as the API.
Without createdBy a proposal is created by the superadmin "seed".
*/
package seed
