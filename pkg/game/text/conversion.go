package text

// '_' marks a code point that does not appear in any string shipped with
// the game. Decoding one is an error.
const unmapped = '_'

// conversion table: latin code point → unicode
// example: the game stores 0x41, latinToUni[0x41] → A
var latinToUni = [256]rune{
	/* 00 */ '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_',
	/* 10 */ '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_',
	/* 20 */ ' ', '!', '_', '_', '_', '_', '&', '\'', '(', ')', '_', '+', ',', '-', '.', '/',
	/* 30 */ '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', ':', ';', '©', '_', '_', '?',
	/* 40 */ '_', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O',
	/* 50 */ 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', 'Ä', 'Ö', 'Ü', 'ß', 'À',
	/* 60 */ 'Â', 'Ç', 'É', 'È', 'Ê', 'Ë', 'Î', 'Ï', 'Ô', 'Û', '_', 'Ù', '_', '_', '_', '_',
	/* 70 */ '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '~', '_',
	/* 80 */ '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_',
	/* 90 */ '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_',
	/* A0 */ '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_',
	/* B0 */ '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_',
	/* C0 */ '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_',
	/* D0 */ '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_',
	/* E0 */ '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_',
	/* F0 */ '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_', '_',
}

// conversion table: japanese code point → unicode
// the Japanese font also carries the latin alphabet, so plain ASCII text is
// often stored in this mode
var japaneseToUni = [256]rune{
	/* 00 */ '_', '、', '$', '(', ')', '.', '%', '「', '」', '_', '_', '<', '>', '＆', '~', ' ',
	/* 10 */ '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'A', 'B', 'C', 'D', 'E', 'F',
	/* 20 */ 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V',
	/* 30 */ 'W', 'X', 'Y', 'Z', '!', '"', '#', '\'', '*', '+', ',', 'ー', '.', '/', ':', '=',
	/* 40 */ '?', '@', '。', '゛', '゜', 'ァ', 'ィ', 'ゥ', 'ェ', 'ォ', 'ッ', 'ャ', 'ュ', 'ョ', 'ヲ', 'ン',
	/* 50 */ 'ア', 'イ', 'ウ', 'エ', 'オ', 'カ', 'キ', 'ク', 'ケ', 'コ', 'サ', 'シ', 'ス', 'セ', 'ソ', 'タ',
	/* 60 */ 'チ', 'ツ', 'テ', 'ト', 'ナ', 'ニ', 'ヌ', 'ネ', 'ノ', 'ハ', 'ヒ', 'フ', 'ヘ', 'ホ', 'マ', 'ミ',
	/* 70 */ 'ム', 'メ', 'モ', 'ヤ', 'ユ', 'ヨ', 'ラ', 'リ', 'ル', 'レ', 'ロ', 'ワ', 'ガ', 'ギ', 'グ', 'ゲ',
	/* 80 */ 'ゴ', 'ザ', 'ジ', 'ズ', 'ゼ', 'ゾ', 'ダ', 'ヂ', 'ヅ', 'デ', 'ド', 'バ', 'ビ', 'ブ', 'ベ', 'ボ',
	/* 90 */ 'パ', 'ピ', 'プ', 'ペ', 'ポ', 'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k',
	/* A0 */ 'l', 'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z', 'ぁ',
	/* B0 */ 'ぃ', 'ぅ', 'ぇ', 'ぉ', 'っ', 'ゃ', 'ゅ', 'ょ', 'を', 'ん', 'あ', 'い', 'う', 'え', 'お', 'か',
	/* C0 */ 'き', 'く', 'け', 'こ', 'さ', 'し', 'す', 'せ', 'そ', 'た', 'ち', 'つ', 'て', 'と', 'な', 'に',
	/* D0 */ 'ぬ', 'ね', 'の', 'は', 'ひ', 'ふ', 'へ', 'ほ', 'ま', 'み', 'む', 'め', 'も', 'や', 'ゆ', 'よ',
	/* E0 */ 'ら', 'り', 'る', 'れ', 'ろ', 'わ', 'が', 'ぎ', 'ぐ', 'げ', 'ご', 'ざ', 'じ', 'ず', 'ぜ', 'ぞ',
	/* F0 */ 'だ', 'ぢ', 'づ', 'で', 'ど', 'ば', 'び', 'ぶ', 'べ', 'ぼ', 'ぱ', 'ぴ', 'ぷ', 'ぺ', 'ぽ', 'ヴ',
}

// reverse of latinToUni and japaneseToUni. Where a rune appears twice the
// lower code point wins.
var uniToLatin = map[rune]byte{}
var uniToJapanese = map[rune]byte{}

func init() {
	for cpoint, r := range latinToUni {
		if _, ok := uniToLatin[r]; r != unmapped && !ok {
			uniToLatin[r] = byte(cpoint)
		}
	}
	for cpoint, r := range japaneseToUni {
		if _, ok := uniToJapanese[r]; r != unmapped && !ok {
			uniToJapanese[r] = byte(cpoint)
		}
	}
}
