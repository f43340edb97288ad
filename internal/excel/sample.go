package excel

import "shop-finder/internal/models"

// SampleSourceTag marks shops served from the built-in catalog.
const SampleSourceTag = "sample"

var sampleShops = []models.Shop{
	// Ha Noi
	{
		Name: "Elise Fashion Hoan Kiem", Address: "42 Trang Tien, Hoan Kiem, Ha Noi",
		Location: models.At(21.0245, 105.8530), Category: "Thoi trang nu cao cap",
		PriceRange: "500k - 2tr", Notes: "Giam 20% cuoi tuan, mau moi 2024",
	},
	{
		Name: "CANIFA Vincom Ba Trieu", Address: "191 Ba Trieu, Hai Ba Trung, Ha Noi",
		Location: models.At(21.0115, 105.8490), Category: "Thoi trang gia dinh",
		PriceRange: "200k - 800k", Notes: "Mua 2 giam 15%, free ship noi thanh",
	},
	{
		Name: "Routine Store Cau Giay", Address: "125 Xuan Thuy, Cau Giay, Ha Noi",
		Location: models.At(21.0367, 105.7873), Category: "Streetwear nam nu",
		PriceRange: "300k - 1tr", Notes: "BST mua dong moi, tang voucher 100k",
	},
	{
		Name: "YODY Thai Ha", Address: "98 Thai Ha, Dong Da, Ha Noi",
		Location: models.At(21.0145, 105.8215), Category: "Thoi trang co ban",
		PriceRange: "150k - 500k", Notes: "Flash sale thu 6, giam den 50%",
	},
	{
		Name: "NEM Fashion Kim Ma", Address: "233 Kim Ma, Ba Dinh, Ha Noi",
		Location: models.At(21.0305, 105.8145), Category: "Thoi trang cong so nu",
		PriceRange: "400k - 1.5tr", Notes: "Combo 3 mon giam 25%",
	},
	{
		Name: "Owen Hang Bai", Address: "88 Hang Bai, Hoan Kiem, Ha Noi",
		Location: models.At(21.0252, 105.8485), Category: "Ao so mi nam cao cap",
		PriceRange: "350k - 900k", Notes: "Mua 3 tang 1, theu ten mien phi",
	},
	{
		Name: "Ivy Moda Long Bien", Address: "Aeon Mall Long Bien, Ha Noi",
		Location: models.At(21.0507, 105.8913), Category: "Thoi trang nu tre trung",
		PriceRange: "300k - 1.2tr", Notes: "Giam 30% cho khach moi",
	},
	// TP.HCM
	{
		Name: "Routine Store Nguyen Hue", Address: "76 Nguyen Hue, Quan 1, TP.HCM",
		Location: models.At(10.7738, 106.7031), Category: "Streetwear nam nu",
		PriceRange: "300k - 1tr", Notes: "Khai truong giam 25%",
	},
	{
		Name: "JUNO Quan 3", Address: "156 Vo Van Tan, Quan 3, TP.HCM",
		Location: models.At(10.7725, 106.6875), Category: "Giay dep & Tui xach nu",
		PriceRange: "200k - 600k", Notes: "Combo giay + tui giam 20%",
	},
	{
		Name: "Blue Exchange Phu Nhuan", Address: "210 Phan Xich Long, Phu Nhuan, TP.HCM",
		Location: models.At(10.7985, 106.6805), Category: "Thoi trang tre",
		PriceRange: "150k - 450k", Notes: "Hoc sinh sinh vien giam 15%",
	},
	{
		Name: "Nem Fashion Crescent Mall", Address: "Crescent Mall, Quan 7, TP.HCM",
		Location: models.At(10.7295, 106.7195), Category: "Thoi trang cong so nu",
		PriceRange: "400k - 1.5tr", Notes: "Tang scarf khi mua tu 1tr",
	},
	{
		Name: "CANIFA Landmark 81", Address: "Landmark 81, Binh Thanh, TP.HCM",
		Location: models.At(10.7952, 106.7219), Category: "Thoi trang gia dinh",
		PriceRange: "200k - 800k", Notes: "Member giam them 10%",
	},
	{
		Name: "Elise Takashimaya", Address: "Takashimaya, Quan 1, TP.HCM",
		Location: models.At(10.7733, 106.7010), Category: "Thoi trang nu cao cap",
		PriceRange: "600k - 2.5tr", Notes: "BST Xuan He 2024, thiet ke doc quyen",
	},
	{
		Name: "Owen Le Loi", Address: "102 Le Loi, Quan 1, TP.HCM",
		Location: models.At(10.7718, 106.6980), Category: "Ao so mi nam cao cap",
		PriceRange: "350k - 900k", Notes: "In logo cong ty mien phi",
	},
	{
		Name: "YODY Go Vap", Address: "458 Quang Trung, Go Vap, TP.HCM",
		Location: models.At(10.8385, 106.6495), Category: "Thoi trang co ban",
		PriceRange: "150k - 500k", Notes: "Doi tra trong 30 ngay",
	},
}

// SampleShops returns a fresh copy of the built-in catalog of Ha Noi and
// TP.HCM shops, served when no workbook is configured.
func SampleShops() []models.Shop {
	out := make([]models.Shop, len(sampleShops))
	for i, s := range sampleShops {
		loc := *s.Location
		s.Location = &loc
		s.Source = SampleSourceTag
		out[i] = s
	}
	return out
}
