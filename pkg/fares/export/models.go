package export

// FlowRow is one fare of one flow.
type FlowRow struct {
	Result            int    `csv:"result"`
	Railcard          string `csv:"rlc"`
	Origin            string `csv:"o"`
	Destination       string `csv:"d"`
	Route             string `csv:"route"`
	FlowID            int    `csv:"id"`
	DiscountIndicator int    `csv:"discind"`
	NDF               bool   `csv:"ndf"`
	Position          int    `csv:"position"`
	TicketCode        string `csv:"t"`
	RestrictionCode   string `csv:"r"`
	Adult             int    `csv:"a"`
	Child             int    `csv:"c"`
	TicketClass       int    `csv:"cl,omitempty"`
	TicketType        string `csv:"tt,omitempty"`
}

// PlusBusRow is one entry of a plusbus fares table.
type PlusBusRow struct {
	Result      int    `csv:"result"`
	Railcard    string `csv:"rlc"`
	Origin      string `csv:"o"`
	Destination string `csv:"d"`
	Code        string `csv:"code"`
	End         string `csv:"end"`
	Zone        string `csv:"zone"`
	Season      bool   `csv:"season"`
	Adult       int    `csv:"a"`
	Child       int    `csv:"c"`
}

type JourneyRow struct {
	Journey          int    `csv:"journey"`
	Origin           string `csv:"ocrs"`
	Destination      string `csv:"dcrs"`
	DepartureMinutes int    `csv:"dep"`
	ArrivalMinutes   int    `csv:"arr"`
	Departure        string `csv:"departure"`
	Arrival          string `csv:"arrival"`
	Minutes          string `csv:"minutes"`
}
