package service

import "fmt"

// Terminal replies. Every path through the assistant ends in exactly one of
// these or in a synthesized answer.
const (
	ReplyNoMatch            = "Sorry, we couldn't find any hotels that match your search."
	ReplyNoRoomsMatch       = "Sorry, we couldn't find any rooms that match your criteria."
	ReplyHotelsButNoRooms   = "Sorry, we found hotels matching your search, but none of their rooms match your room criteria."
	ReplyClarify            = "I couldn't understand your request. Could you please rephrase it with more details?"
	ReplyInsufficientHotels = "Sorry, I need at least two hotels that are listed on Roomie to make a comparison."
	ReplyApology            = "Sorry, I couldn't find enough information on Roomie to answer that. Please try asking about a specific hotel or room."
	ReplyPlatformFailure    = "Sorry, we couldn't retrieve Roomie platform information right now. Please try again later."
	ReplyRetrieveFailure    = "Sorry, we couldn't retrieve the information right now. Please try again later."
	ReplyDecline            = "Sorry, I can only help with questions about accommodations listed on Roomie, such as hotel recommendations, comparisons, facilities and prices."
	ReplyEmptyMessage       = "Please send a message so I can help you find an accommodation."
	ReplyRateLimited        = "You're sending messages too quickly. Please wait a moment and try again."
)

// Placeholders used inside comparison grounding blocks
const (
	placeholderNoRooms      = "No room data available"
	placeholderNoFacilities = "No facility data available"
	placeholderNoRatings    = "No rating data available"
)

func replyHotelNotFound(name string) string {
	return fmt.Sprintf("Sorry, we couldn't find a hotel named %s on Roomie.", name)
}

func replyNoRoomInfo(hotel string) string {
	return fmt.Sprintf("No room information is available for %s.", hotel)
}

func replyNoFacilityInfo(hotel string) string {
	return fmt.Sprintf("No facility information is available for %s.", hotel)
}

func replyNoRoomTypeFacilities(roomType, hotel string) string {
	return fmt.Sprintf("No facility information found for %s at %s.", roomType, hotel)
}

func replyNoPricingInfo(hotel string) string {
	return fmt.Sprintf("No pricing information is available for %s.", hotel)
}

func replyNoRoomTypePricing(roomType, hotel string) string {
	return fmt.Sprintf("No pricing information found for %s at %s.", roomType, hotel)
}
